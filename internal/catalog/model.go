// Package catalog owns the creative-work collections behind the portfolio
// pages: storage, validation, id assignment, and the cascading cleanup of
// uploaded assets when an entry is removed.
package catalog

import (
	"fmt"
	"strings"
)

// WorkType discriminates the four catalog variants. It is immutable after
// creation; each work type is persisted as its own collection.
type WorkType string

const (
	WorkTypeArchitecture  WorkType = "architecture"
	WorkTypeArt           WorkType = "art"
	WorkTypeFilm          WorkType = "film"
	WorkTypeProductDesign WorkType = "productDesign"
)

// WorkTypes lists every valid work type in display order.
func WorkTypes() []WorkType {
	return []WorkType{WorkTypeArchitecture, WorkTypeArt, WorkTypeFilm, WorkTypeProductDesign}
}

func ParseWorkType(raw string) (WorkType, error) {
	switch WorkType(strings.TrimSpace(raw)) {
	case WorkTypeArchitecture:
		return WorkTypeArchitecture, nil
	case WorkTypeArt:
		return WorkTypeArt, nil
	case WorkTypeFilm:
		return WorkTypeFilm, nil
	case WorkTypeProductDesign:
		return WorkTypeProductDesign, nil
	default:
		return "", fmt.Errorf("unknown work type %q", raw)
	}
}

func (w WorkType) IsValid() bool {
	_, err := ParseWorkType(string(w))
	return err == nil
}

// CollectionName is the document-store key segment for this work type.
func (w WorkType) CollectionName() string {
	return string(w)
}

// Entry is one creative-work record. All four variants share this envelope;
// WorkType selects which of the variant fields are meaningful, and the
// validation and serialization logic switch on it exhaustively. Field names
// mirror the admin-panel JSON contract.
type Entry struct {
	ID       int64    `json:"id"`
	WorkType WorkType `json:"workType"`
	Title    string   `json:"title"`

	// Images is the ordered gallery; index 0 is the hero image. Icon and
	// IconSecondary are standalone thumbnail assets (posters, map pins)
	// deletable independently of the gallery.
	Images        []string `json:"images"`
	Icon          string   `json:"icon"`
	IconSecondary string   `json:"iconSecondary,omitempty"`

	// Page/Position address the slot grid; see the placement package.
	// Uniqueness of (page, position) is advisory only: the resolver shows
	// occupancy, but colliding entries are accepted and the last one in
	// storage order wins the rendered slot.
	Page     int `json:"page,omitempty"`
	Position int `json:"position,omitempty"`

	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	Year    string `json:"year,omitempty"`

	// architecture
	Category string `json:"category,omitempty"`

	// art. Collection is a freeform display label, not a foreign key; the
	// placement resolver scopes (page, position) within it.
	Discipline  string `json:"discipline,omitempty"`
	Collection  string `json:"collection,omitempty"`
	ForSale     *bool  `json:"forSale,omitempty"`
	Description string `json:"description,omitempty"`
	Materials   string `json:"materials,omitempty"`
	Dimensions  string `json:"dimensions,omitempty"`
	Price       string `json:"price,omitempty"`

	// film
	Registration string `json:"registration,omitempty"`
	Synapsis     string `json:"synapsis,omitempty"`
	Length       string `json:"length,omitempty"`

	// productDesign
	Material string `json:"material,omitempty"`
	UseCase  string `json:"useCase,omitempty"`
}

// Placement accessors for the slot resolver. Art entries scope their slots
// within their collection label; the other work types share one namespace.
func (e Entry) PlacementPage() int     { return e.Page }
func (e Entry) PlacementPosition() int { return e.Position }
func (e Entry) PlacementLabel() string { return e.Collection }

const placeholderSuffix = "/placeholder.png"

// IsPlaceholderAsset reports whether a URL is the well-known placeholder
// image, which is never an uploaded blob and must never be deleted.
func IsPlaceholderAsset(url string) bool {
	return strings.HasSuffix(url, placeholderSuffix)
}

// AssetURLs returns every deletable asset owned by the entry: gallery
// images plus icons, minus placeholders, empties, and duplicates. Order is
// deterministic (gallery order, then icon, then secondary icon).
func (e Entry) AssetURLs() []string {
	candidates := make([]string, 0, len(e.Images)+2)
	candidates = append(candidates, e.Images...)
	candidates = append(candidates, e.Icon, e.IconSecondary)

	seen := make(map[string]struct{}, len(candidates))
	urls := make([]string, 0, len(candidates))
	for _, url := range candidates {
		if url == "" || IsPlaceholderAsset(url) {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}
	return urls
}

// normalized returns a copy with server-side defaults applied: empty
// gallery slice instead of nil, page 1, and forSale true for art.
func (e Entry) normalized(workType WorkType) Entry {
	e.WorkType = workType
	if e.Images == nil {
		e.Images = []string{}
	}
	if e.Page < 1 {
		e.Page = 1
	}
	if workType == WorkTypeArt && e.ForSale == nil {
		forSale := true
		e.ForSale = &forSale
	}
	return e
}
