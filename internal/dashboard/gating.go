package dashboard

import (
	"github.com/SioxGlobal/performance-dashboard/internal/company"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

// Tile is one company card on the dashboard. Tag is the explicit company
// key when present; the visible Title is used otherwise.
type Tile struct {
	Tag   string `json:"tag,omitempty"`
	Title string `json:"title"`
}

// Key resolves the canonical company key, preferring the explicit tag.
func (t Tile) Key() string {
	if t.Tag != "" {
		return company.Normalize(t.Tag)
	}
	return company.Normalize(t.Title)
}

// TileView is a tile plus its per-caller visibility. Hidden tiles stay in
// the list so the page keeps their position when a filter is cleared.
type TileView struct {
	Tile
	Visible   bool       `json:"visible"`
	Highlight *Highlight `json:"highlight,omitempty"`
}

// TilesForCompanies builds the tile set from the configured company labels,
// in configuration order.
func TilesForCompanies(labels []string) []Tile {
	out := make([]Tile, len(labels))
	for i, l := range labels {
		out[i] = Tile{Tag: l, Title: l}
	}
	return out
}

// GateTiles applies the authorization gate: admins see every tile, users
// see exactly the tiles whose canonical key is in their access set.
func GateTiles(a Access, tiles []Tile) []TileView {
	out := make([]TileView, len(tiles))
	for i, t := range tiles {
		out[i] = TileView{Tile: t, Visible: a.CanSee(t.Key())}
	}
	return out
}

// ShowEmptyState reports whether the "no company access yet" placeholder
// card is displayed: only for a user role with an empty access list and
// zero visible real tiles. The card is never clickable and disappears as
// soon as a real tile is visible or the caller is admin.
func ShowEmptyState(a Access, gated []TileView) bool {
	if a.Role != domain.RoleUser || len(a.CompanyIDs) != 0 {
		return false
	}
	for _, t := range gated {
		if t.Visible {
			return false
		}
	}
	return true
}
