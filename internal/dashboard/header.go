package dashboard

import (
	"strings"

	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

// Identity is the header/profile-dropdown view model.
type Identity struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Initials    string `json:"initials"`
	RoleLabel   string `json:"roleLabel"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// DeriveIdentity builds the header block: display name falls back to the
// email local-part, initials are first+last word initials uppercased, and
// non-admins are labeled "Authenticated User".
func DeriveIdentity(p *domain.Profile) Identity {
	name := strings.TrimSpace(p.DisplayName)
	if name == "" && p.Email != "" {
		name = strings.SplitN(p.Email, "@", 2)[0]
	}
	if name == "" {
		name = "User"
	}

	roleLabel := "Authenticated User"
	if p.Role.IsAdmin() {
		roleLabel = "Admin"
	}

	return Identity{
		DisplayName: name,
		Email:       p.Email,
		Initials:    initials(name),
		RoleLabel:   roleLabel,
		PhotoURL:    p.PhotoURL,
	}
}

func initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "U"
	}
	first := string([]rune(parts[0])[0])
	if len(parts) >= 2 {
		last := []rune(parts[len(parts)-1])
		return strings.ToUpper(first + string(last[0]))
	}
	return strings.ToUpper(first)
}
