package models

import (
	"fmt"
	"strconv"
)

// CellID identifies a single cell of the global hexagonal grid. It is the
// opaque 64-bit index produced by the geospatial index and is the only key
// used across the geometry and status caches. The zero value is not a
// valid cell.
type CellID uint64

// String renders the id in the index's canonical lower-case hex form,
// e.g. "8828308281fffff".
func (id CellID) String() string {
	return strconv.FormatUint(uint64(id), 16)
}

// ParseCellID parses the hex form produced by String.
func ParseCellID(s string) (CellID, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid cell id %q: %w", s, err)
	}
	return CellID(v), nil
}

// MarshalText implements encoding.TextMarshaler so cell ids can be used
// directly as JSON object keys.
func (id CellID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *CellID) UnmarshalText(text []byte) error {
	v, err := ParseCellID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
