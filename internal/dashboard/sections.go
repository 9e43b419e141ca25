package dashboard

const (
	SectionDashboard = "dashboard"
	SectionUsers     = "users"
)

// SectionSwitch is the outcome of a sidebar navigation request.
type SectionSwitch struct {
	Section string `json:"section"`
	// Notice is set when the request was silently redirected.
	Notice string `json:"notice,omitempty"`
}

// ResolveSection gates section switching: the users section is admin-only
// and non-admins are sent back to the default section with a notice.
// Unknown section names fall through to the default.
func ResolveSection(a Access, requested string) SectionSwitch {
	switch requested {
	case SectionUsers:
		if !a.IsAdmin() {
			return SectionSwitch{Section: SectionDashboard, Notice: "You don't have permission to view Users."}
		}
		return SectionSwitch{Section: SectionUsers}
	case SectionDashboard:
		return SectionSwitch{Section: SectionDashboard}
	default:
		return SectionSwitch{Section: SectionDashboard}
	}
}
