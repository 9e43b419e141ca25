package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

func TestDeriveIdentity(t *testing.T) {
	t.Run("two-word name gives first+last initials", func(t *testing.T) {
		id := DeriveIdentity(&domain.Profile{DisplayName: "Jane Q Doe", Email: "jane@sioxglobal.com", Role: domain.RoleUser})
		assert.Equal(t, "Jane Q Doe", id.DisplayName)
		assert.Equal(t, "JD", id.Initials)
		assert.Equal(t, "Authenticated User", id.RoleLabel)
	})

	t.Run("admin label", func(t *testing.T) {
		id := DeriveIdentity(&domain.Profile{DisplayName: "Boss", Role: domain.RoleAdmin})
		assert.Equal(t, "Admin", id.RoleLabel)
		assert.Equal(t, "B", id.Initials)
	})

	t.Run("falls back to email local-part", func(t *testing.T) {
		id := DeriveIdentity(&domain.Profile{Email: "jdoe@sioxglobal.com"})
		assert.Equal(t, "jdoe", id.DisplayName)
		assert.Equal(t, "J", id.Initials)
	})

	t.Run("nothing at all", func(t *testing.T) {
		id := DeriveIdentity(&domain.Profile{})
		assert.Equal(t, "User", id.DisplayName)
		assert.Equal(t, "U", id.Initials)
	})
}

func TestResolveSection(t *testing.T) {
	t.Run("admin can open users", func(t *testing.T) {
		sw := ResolveSection(adminAccess(), SectionUsers)
		assert.Equal(t, SectionUsers, sw.Section)
		assert.Empty(t, sw.Notice)
	})

	t.Run("non-admin is redirected with notice", func(t *testing.T) {
		sw := ResolveSection(userAccess("siox global"), SectionUsers)
		assert.Equal(t, SectionDashboard, sw.Section)
		assert.NotEmpty(t, sw.Notice)
	})

	t.Run("unknown section falls back to dashboard", func(t *testing.T) {
		sw := ResolveSection(adminAccess(), "reports-beta")
		assert.Equal(t, SectionDashboard, sw.Section)
	})
}
