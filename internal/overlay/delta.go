package overlay

import (
	"sort"

	"github.com/gravitas-games/hexfield/pkg/models"
)

// Delta describes how the visible set changed in one update: the cells
// that entered the viewport and the cells that left it, at the resolution
// the update resolved to. Ids are sorted ascending.
type Delta struct {
	Resolution int             `json:"resolution"`
	Added      []models.CellID `json:"added"`
	Removed    []models.CellID `json:"removed"`
}

// Empty reports whether the delta changes nothing.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// MergeDeltas combines two consecutive deltas into the single delta a
// consumer would have seen had it observed only the end states. A cell
// removed by the first delta and re-added by the second (or vice versa)
// cancels out. Used when a slow consumer misses an intermediate delta.
func MergeDeltas(first, next Delta) Delta {
	firstAdded := NewCellSet(first.Added)
	firstRemoved := NewCellSet(first.Removed)
	nextAdded := NewCellSet(next.Added)
	nextRemoved := NewCellSet(next.Removed)

	added := make([]models.CellID, 0, len(first.Added)+len(next.Added))
	for _, id := range first.Added {
		if !nextRemoved.Has(id) {
			added = append(added, id)
		}
	}
	for _, id := range next.Added {
		if !firstRemoved.Has(id) {
			added = append(added, id)
		}
	}

	removed := make([]models.CellID, 0, len(first.Removed)+len(next.Removed))
	for _, id := range first.Removed {
		if !nextAdded.Has(id) {
			removed = append(removed, id)
		}
	}
	for _, id := range next.Removed {
		if !firstAdded.Has(id) {
			removed = append(removed, id)
		}
	}

	sortCells(added)
	sortCells(removed)
	return Delta{Resolution: next.Resolution, Added: added, Removed: removed}
}

func sortCells(ids []models.CellID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
