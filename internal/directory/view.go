// Package directory implements the admin-only user directory: row view
// derivation for the listing and the per-row edit workflow.
package directory

import (
	"strings"

	"github.com/SioxGlobal/performance-dashboard/internal/dashboard"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

// AllCompaniesLabel is what an admin row shows instead of a company list.
const AllCompaniesLabel = "All Companies"

// RoleOptions are the UI labels offered by the role selector.
var RoleOptions = []string{"Admin", "User"}

// Row is one directory listing entry.
type Row struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	RoleLabel string `json:"role"`
	Companies string `json:"companies"`
	CanEdit   bool   `json:"canEdit"`

	Visible    bool                            `json:"visible"`
	Highlights map[string]*dashboard.Highlight `json:"highlights,omitempty"`
}

// BuildRows derives the listing from profiles already ordered by email.
// Legacy single-string or single-array company fields are migrated to the
// companyIds shape before display.
func BuildRows(profiles []*domain.Profile, callerIsAdmin bool) []Row {
	rows := make([]Row, len(profiles))
	for i, p := range profiles {
		rows[i] = Row{
			UID:       p.UID,
			Name:      rowName(p),
			Email:     valueOrDash(p.Email),
			RoleLabel: p.Role.Label(),
			Companies: companiesDisplay(p.Role, p.Companies()),
			CanEdit:   callerIsAdmin,
			Visible:   true,
		}
	}
	return rows
}

// rowName derives the display name: first name (falling back to display
// name, then the email local-part), with the last name appended.
func rowName(p *domain.Profile) string {
	name := strings.TrimSpace(p.FirstName)
	if name == "" {
		name = strings.TrimSpace(p.DisplayName)
	}
	if name == "" && p.Email != "" {
		name = strings.SplitN(p.Email, "@", 2)[0]
	}
	if last := strings.TrimSpace(p.LastName); last != "" {
		name = strings.TrimSpace(name + " " + last)
	}
	return valueOrDash(name)
}

func companiesDisplay(role domain.Role, companies []string) string {
	if role.IsAdmin() {
		return AllCompaniesLabel
	}
	if len(companies) == 0 {
		return "-"
	}
	return strings.Join(companies, ", ")
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// FilterRows applies the search query: a row matches when the query occurs
// in the concatenation of name, email, role and companies. Matching rows
// get per-cell highlights; non-matching rows are hidden, not removed.
func FilterRows(rows []Row, query string) []Row {
	q := strings.TrimSpace(query)
	out := make([]Row, len(rows))
	for i, r := range rows {
		r.Highlights = nil
		r.Visible = true
		if q != "" {
			combined := strings.ToLower(r.Name + " " + r.Email + " " + r.RoleLabel + " " + r.Companies)
			if strings.Contains(combined, strings.ToLower(q)) {
				r.Highlights = rowHighlights(r, q)
			} else {
				r.Visible = false
			}
		}
		out[i] = r
	}
	return out
}

func rowHighlights(r Row, q string) map[string]*dashboard.Highlight {
	hl := make(map[string]*dashboard.Highlight)
	for field, text := range map[string]string{
		"name":      r.Name,
		"email":     r.Email,
		"role":      r.RoleLabel,
		"companies": r.Companies,
	} {
		if h := dashboard.HighlightFirst(text, q); h != nil {
			hl[field] = h
		}
	}
	if len(hl) == 0 {
		return nil
	}
	return hl
}
