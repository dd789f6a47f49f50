package overlay

import (
	"log"

	"github.com/gravitas-games/hexfield/pkg/models"
)

// Updater applies the difference between consecutive visible sets to the
// geometry cache. Only the symmetric difference is touched; cells present
// in both sets are never refetched or rewritten. The updater is not safe
// for concurrent use; the pipeline is its single writer.
type Updater struct {
	index   CellIndex
	cache   *GeometryCache
	visible CellSet
}

// NewUpdater builds an updater writing into the given cache.
func NewUpdater(index CellIndex, cache *GeometryCache) *Updater {
	return &Updater{
		index:   index,
		cache:   cache,
		visible: make(CellSet),
	}
}

// Apply diffs next against the last applied set, fetches boundaries for
// newly visible cells only, applies the whole delta to the cache as one
// unit and swaps the visible set. The status store is deliberately left
// alone: statuses outlive visibility.
//
// Cells whose boundary fetch fails are left out of both the cache and the
// visible set, so a later update retries them naturally. After Apply the
// visible set and the cache key set are identical.
func (u *Updater) Apply(resolution int, next CellSet) Delta {
	inserts := make(map[models.CellID]models.Boundary)
	for id := range next {
		if u.visible.Has(id) {
			continue
		}
		b, err := u.index.Boundary(id)
		if err != nil {
			log.Printf("overlay: boundary for cell %v unavailable: %v", id, err)
			continue
		}
		inserts[id] = b
	}

	removed := make([]models.CellID, 0)
	for id := range u.visible {
		if !next.Has(id) {
			removed = append(removed, id)
		}
	}

	u.cache.ApplyDelta(inserts, removed)

	visible := u.visible.Clone()
	for _, id := range removed {
		delete(visible, id)
	}
	added := make([]models.CellID, 0, len(inserts))
	for id := range inserts {
		visible[id] = struct{}{}
		added = append(added, id)
	}
	u.visible = visible

	sortCells(added)
	sortCells(removed)
	return Delta{Resolution: resolution, Added: added, Removed: removed}
}

// Visible returns a copy of the last applied set.
func (u *Updater) Visible() CellSet {
	return u.visible.Clone()
}
