package dashboard

import (
	"strings"
	"unicode/utf8"
)

// Highlight is the three-way split of a matched text around the first
// case-insensitive occurrence of the query; the page wraps Match in a
// highlight span.
type Highlight struct {
	Before string `json:"before"`
	Match  string `json:"match"`
	After  string `json:"after"`
}

// HighlightFirst returns the split for the first case-insensitive occurrence
// of query in text, or nil when there is none or the query is empty. The
// split is computed on the original text: lowercasing can change byte
// lengths (U+023A lowers to a longer encoding), so indexes into a folded
// copy must never be applied to the original.
func HighlightFirst(text, query string) *Highlight {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	qRunes := utf8.RuneCountInString(q)
	for start := 0; start < len(text); {
		// candidate window of the same rune count as the query;
		// simple case folding is rune-for-rune, so equal-fold matches
		// always span equally many runes
		end := start
		for n := 0; n < qRunes && end < len(text); n++ {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
		}
		if utf8.RuneCountInString(text[start:end]) == qRunes && strings.EqualFold(text[start:end], q) {
			return &Highlight{
				Before: text[:start],
				Match:  text[start:end],
				After:  text[end:],
			}
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	return nil
}


// FilterTiles applies the search query on top of gated tiles. The filter is
// visual only: it can hide an already-visible tile but never grants
// visibility to a tile the authorization gate hid. An empty query restores
// every gated-visible tile with highlights removed.
func FilterTiles(gated []TileView, query string) []TileView {
	q := strings.TrimSpace(query)
	out := make([]TileView, len(gated))
	for i, t := range gated {
		t.Highlight = nil
		if q != "" && t.Visible {
			if h := HighlightFirst(t.Title, q); h != nil {
				t.Highlight = h
			} else {
				t.Visible = false
			}
		}
		out[i] = t
	}
	return out
}
