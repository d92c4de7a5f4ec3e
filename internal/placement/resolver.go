// Package placement resolves which catalog entry occupies each slot of a
// paged grid. The front end renders two grid shapes: the 4-slot filmstrip
// rows on the landing pages and the 13x7 contact sheet used by the archive
// views. Positions are 1-based and column-major within a row: position 1 is
// the top-left slot, position Columns is the end of the first row.
package placement

import "strings"

// Grid describes one page of slots.
type Grid struct {
	Columns int
	Rows    int
}

var (
	// Filmstrip is the 4-slot strip rendered on the landing pages.
	Filmstrip = Grid{Columns: 4, Rows: 1}
	// Sheet is the 13x7 contact-sheet grid of the archive views.
	Sheet = Grid{Columns: 13, Rows: 7}
)

// Slots is the number of positions on one page.
func (g Grid) Slots() int {
	return g.Columns * g.Rows
}

// Contains reports whether position addresses a slot on one page of g.
func (g Grid) Contains(position int) bool {
	return position >= 1 && position <= g.Slots()
}

// RowColumn maps a 1-based position to its 1-based (row, column). Positions
// outside the grid report (0, 0).
func (g Grid) RowColumn(position int) (row, column int) {
	if !g.Contains(position) {
		return 0, 0
	}
	return (position-1)/g.Columns + 1, (position-1)%g.Columns + 1
}

// Position is the inverse of RowColumn.
func (g Grid) Position(row, column int) int {
	if row < 1 || row > g.Rows || column < 1 || column > g.Columns {
		return 0
	}
	return (row-1)*g.Columns + column
}

// GlobalPosition converts a per-page slot index (0-based) into the absolute
// 1-based position across all pages, the value persisted on entries.
func (g Grid) GlobalPosition(page, localIndex int) int {
	if page < 1 {
		page = 1
	}
	return (page-1)*g.Slots() + localIndex + 1
}

// NextPage and PrevPage step through pages; page numbers never go below 1.
func NextPage(page int) int {
	if page < 1 {
		return 2
	}
	return page + 1
}

func PrevPage(page int) int {
	if page <= 1 {
		return 1
	}
	return page - 1
}

// Placeable is the subset of a catalog entry the resolver needs.
type Placeable interface {
	PlacementPage() int
	PlacementPosition() int
}

// ResolveOccupancy maps positions to the entry shown in that slot for one
// page. Entries with no page default to page 1; entries with no position
// default to position 1. When several entries claim the same slot, the last
// one in input order wins, matching how the admin panel resolves collisions.
func ResolveOccupancy[T Placeable](entries []T, page int) map[int]T {
	if page < 1 {
		page = 1
	}
	occupied := make(map[int]T)
	for _, entry := range entries {
		entryPage := entry.PlacementPage()
		if entryPage < 1 {
			entryPage = 1
		}
		if entryPage != page {
			continue
		}
		position := entry.PlacementPosition()
		if position < 1 {
			position = 1
		}
		occupied[position] = entry
	}
	return occupied
}

// Labeled extends Placeable with a grouping label; art entries scope their
// slots within a named collection.
type Labeled interface {
	Placeable
	PlacementLabel() string
}

// ResolveLabeledOccupancy is ResolveOccupancy restricted to entries whose
// label matches, comparing trimmed and case-insensitively so "Hides " and
// "hides" address the same wall.
func ResolveLabeledOccupancy[T Labeled](entries []T, label string, page int) map[int]T {
	want := normalizeLabel(label)
	matching := make([]T, 0, len(entries))
	for _, entry := range entries {
		if normalizeLabel(entry.PlacementLabel()) == want {
			matching = append(matching, entry)
		}
	}
	return ResolveOccupancy(matching, page)
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
