package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

// Role is stored lowercase in Firestore.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole canonicalizes any spelling to the stored enum, defaulting to user.
func ParseRole(s string) Role {
	if strings.ToLower(strings.TrimSpace(s)) == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Label returns the UI spelling ("Admin" / "User").
func (r Role) Label() string {
	if r.IsAdmin() {
		return "Admin"
	}
	return "User"
}

// Features gates dashboard sections per profile. Users is forced true iff
// the role is admin; the other two default on and stay on.
type Features struct {
	Dashboard bool `firestore:"dashboard" json:"dashboard"`
	Reports   bool `firestore:"reports" json:"reports"`
	Users     bool `firestore:"users" json:"users"`
}

// DefaultFeatures is the fixed initial set written once at creation.
func DefaultFeatures() Features {
	return Features{Dashboard: true, Reports: true, Users: false}
}

// FeaturesFor derives the feature set an admin edit must persist.
func FeaturesFor(role Role) Features {
	return Features{Dashboard: true, Reports: true, Users: role.IsAdmin()}
}

// Profile is the persisted per-account document in the users collection,
// keyed by the identity provider's uid.
type Profile struct {
	UID           string   `firestore:"uid" json:"uid"`
	Email         string   `firestore:"email" json:"email"`
	DisplayName   string   `firestore:"displayName" json:"displayName"`
	FirstName     string   `firestore:"firstName" json:"firstName"`
	LastName      string   `firestore:"lastName" json:"lastName"`
	Phone         string   `firestore:"phone,omitempty" json:"phone,omitempty"`
	PhotoURL      string   `firestore:"photoURL" json:"photoURL"`
	Provider      string   `firestore:"provider" json:"provider"`
	EmailVerified bool     `firestore:"emailVerified" json:"emailVerified"`
	Role          Role     `firestore:"role" json:"role"`
	CompanyIDs    []string `firestore:"companyIds" json:"companyIds"`
	Features      Features `firestore:"features" json:"features"`

	// LegacyCompany holds the retired `company` field (string or array)
	// still present on old documents. Companies() migrates it.
	LegacyCompany interface{} `firestore:"company,omitempty" json:"-"`

	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt,serverTimestamp" json:"updatedAt"`
	LastLoginAt time.Time `firestore:"lastLoginAt,serverTimestamp" json:"lastLoginAt"`
}

// Companies returns the company-access list, migrating the legacy single
// `company` field (string or array) into the companyIds shape.
func (p *Profile) Companies() []string {
	if p.CompanyIDs != nil {
		return p.CompanyIDs
	}
	switch v := p.LegacyCompany.(type) {
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return []string{}
}

// SplitName derives first/last name parts from a display name, falling back
// to the email local-part when the display name is empty.
func SplitName(displayName, email string) (first, last string) {
	name := strings.TrimSpace(displayName)
	if name == "" && email != "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	if name == "" {
		return "", ""
	}
	parts := strings.Fields(name)
	first = parts[0]
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}
	return first, last
}
