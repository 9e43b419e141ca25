// Package dashboard computes the view models the dashboard page renders:
// company-tile gating, the empty-state card, the header identity block and
// the search filter. Everything is a pure function of an Access value
// derived fresh from the caller's persisted profile; no shared mutable
// is-admin state survives across requests.
package dashboard

import (
	"github.com/SioxGlobal/performance-dashboard/internal/company"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

// Access is the caller's authorization state for one dashboard load.
type Access struct {
	Role       domain.Role
	CompanyIDs []string
	// allowed holds the normalized canonical keys of CompanyIDs.
	allowed map[string]bool
}

// DeriveAccess builds the gating state from a freshly fetched profile.
func DeriveAccess(p *domain.Profile) Access {
	companies := p.Companies()
	return Access{
		Role:       p.Role,
		CompanyIDs: companies,
		allowed:    company.NormalizeAll(companies),
	}
}

// DenyAll is the fail-safe state when the caller's profile cannot be read:
// non-admin with zero company access. Never default to elevated access.
func DenyAll() Access {
	return Access{Role: domain.RoleUser, CompanyIDs: []string{}, allowed: map[string]bool{}}
}

func (a Access) IsAdmin() bool { return a.Role.IsAdmin() }

// CanSee reports whether a canonical company key is visible to the caller.
func (a Access) CanSee(key string) bool {
	return a.IsAdmin() || a.allowed[key]
}
