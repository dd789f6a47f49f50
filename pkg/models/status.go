package models

import (
	"fmt"
	"hash/fnv"
)

// CellStatus is the claim state of a single cell. Statuses live in the
// status store independently of cell visibility: a cell keeps its status
// after it scrolls off-screen.
type CellStatus uint8

const (
	StatusUnclaimed CellStatus = iota
	StatusTeamRed
	StatusTeamBlue
	StatusTeamGreen
	StatusTeamGold
	StatusContested
)

var statusNames = map[CellStatus]string{
	StatusUnclaimed: "unclaimed",
	StatusTeamRed:   "red",
	StatusTeamBlue:  "blue",
	StatusTeamGreen: "green",
	StatusTeamGold:  "gold",
	StatusContested: "contested",
}

// Teams returns the claimable team statuses in a fixed order.
func Teams() []CellStatus {
	return []CellStatus{StatusTeamRed, StatusTeamBlue, StatusTeamGreen, StatusTeamGold}
}

// IsTeam reports whether the status is one of the team markers.
func (s CellStatus) IsTeam() bool {
	return s >= StatusTeamRed && s <= StatusTeamGold
}

func (s CellStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// ParseCellStatus parses the string form produced by String.
func ParseCellStatus(s string) (CellStatus, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return StatusUnclaimed, fmt.Errorf("unknown cell status %q", s)
}

// MarshalText implements encoding.TextMarshaler; statuses travel over the
// wire by name.
func (s CellStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *CellStatus) UnmarshalText(text []byte) error {
	v, err := ParseCellStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// TeamForCell derives a stable pseudo-random team from a cell id. It is
// the demo defaulting policy for status stores: the same cell always lands
// on the same team, with an even spread across teams.
func TeamForCell(id CellID) CellStatus {
	h := fnv.New64a()
	var buf [8]byte
	v := uint64(id)
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
	teams := Teams()
	return teams[h.Sum64()%uint64(len(teams))]
}
