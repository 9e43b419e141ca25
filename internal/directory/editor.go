package directory

import (
	"context"
	"sync"

	"github.com/SioxGlobal/performance-dashboard/internal/apperr"
	"github.com/SioxGlobal/performance-dashboard/internal/dashboard"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

// RowState is the explicit per-row edit state. Rendering is a pure function
// of this value; nothing about the workflow lives in markup.
type RowState int

const (
	Viewing RowState = iota
	Editing
	Saving
)

func (s RowState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "viewing"
	}
}

// AccessStore persists the authorization fields of an admin edit.
type AccessStore interface {
	UpdateAccess(ctx context.Context, uid string, role domain.Role, companyIDs []string, features domain.Features) error
}

type rowEdit struct {
	state RowState

	// last-saved values, restored on cancel
	originalRole      domain.Role
	originalCompanies []string

	// in-progress selections
	role      domain.Role
	companies []string
}

// Editor holds the edit sessions of the directory table, keyed by row uid.
// One session per row; rendering state comes from EditView.
type Editor struct {
	mu      sync.Mutex
	store   AccessStore
	options []string
	rows    map[string]*rowEdit
}

func NewEditor(store AccessStore, companyOptions []string) *Editor {
	return &Editor{
		store:   store,
		options: companyOptions,
		rows:    make(map[string]*rowEdit),
	}
}

// CompanyOptions returns the configured company labels the edit form offers.
func (e *Editor) CompanyOptions() []string {
	return append([]string(nil), e.options...)
}

// EditView is the rendered form of a row edit session.
type EditView struct {
	UID               string   `json:"uid"`
	State             string   `json:"state"`
	RoleOptions       []string `json:"roleOptions"`
	SelectedRole      string   `json:"selectedRole"`
	AllCompanies      bool     `json:"allCompanies"`
	CompanyOptions    []string `json:"companyOptions"`
	SelectedCompanies []string `json:"selectedCompanies"`
}

// SaveResult carries the values the row renders after a successful save;
// they also become the row's new originals for future cancels.
type SaveResult struct {
	UID       string `json:"uid"`
	RoleLabel string `json:"role"`
	Companies string `json:"companies"`
}

// State returns the row's current edit state; rows without a session are
// Viewing.
func (e *Editor) State(uid string) RowState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if r, ok := e.rows[uid]; ok {
		return r.state
	}
	return Viewing
}

// Begin opens an edit session for a row. Admin-only; a row already being
// edited is rejected.
func (e *Editor) Begin(a dashboard.Access, uid string, currentRole domain.Role, currentCompanies []string) (*EditView, error) {
	if !a.IsAdmin() {
		return nil, apperr.Authorization("You don't have permission.")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.rows[uid]; ok {
		return nil, apperr.Validation("Row is already being edited.")
	}

	r := &rowEdit{
		state:             Editing,
		originalRole:      currentRole,
		originalCompanies: append([]string(nil), currentCompanies...),
		role:              currentRole,
		companies:         append([]string(nil), currentCompanies...),
	}
	e.rows[uid] = r
	return e.render(uid, r), nil
}

// SetRole changes the in-progress role selection. Admin-only. Switching to
// Admin collapses the company control to the fixed label; switching back to
// User restores the last-known selections.
func (e *Editor) SetRole(a dashboard.Access, uid string, role domain.Role) (*EditView, error) {
	if !a.IsAdmin() {
		return nil, apperr.Authorization("You don't have permission.")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.rows[uid]
	if !ok || r.state != Editing {
		return nil, apperr.Validation("Row is not being edited.")
	}
	r.role = role
	return e.render(uid, r), nil
}

// SetCompanies changes the in-progress company selection. Admin-only.
func (e *Editor) SetCompanies(a dashboard.Access, uid string, companies []string) (*EditView, error) {
	if !a.IsAdmin() {
		return nil, apperr.Authorization("You don't have permission.")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.rows[uid]
	if !ok || r.state != Editing {
		return nil, apperr.Validation("Row is not being edited.")
	}
	r.companies = append([]string(nil), companies...)
	return e.render(uid, r), nil
}

// Save validates and persists the edit. A user role with zero companies is
// rejected before any persistence call. On store failure the row stays in
// Editing; on success it returns to Viewing with the saved values recorded
// as the new originals.
func (e *Editor) Save(ctx context.Context, a dashboard.Access, uid string) (*SaveResult, error) {
	if !a.IsAdmin() {
		return nil, apperr.Authorization("You don't have permission.")
	}

	e.mu.Lock()
	r, ok := e.rows[uid]
	if !ok || r.state != Editing {
		e.mu.Unlock()
		return nil, apperr.Validation("Row is not being edited.")
	}

	role := r.role
	companies := append([]string(nil), r.companies...)
	if !role.IsAdmin() && len(companies) == 0 {
		e.mu.Unlock()
		return nil, apperr.Validation("User must be assigned to at least one company.")
	}
	if role.IsAdmin() {
		companies = []string{}
	}
	r.state = Saving
	e.mu.Unlock()

	err := e.store.UpdateAccess(ctx, uid, role, companies, domain.FeaturesFor(role))

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		r.state = Editing
		return nil, apperr.Persistence("Failed to update user.", err)
	}

	delete(e.rows, uid)
	return &SaveResult{
		UID:       uid,
		RoleLabel: role.Label(),
		Companies: companiesDisplay(role, companies),
	}, nil
}

// Cancel discards in-progress edits and restores the last-saved values.
// Admin-only; no persistence call is made.
func (e *Editor) Cancel(a dashboard.Access, uid string) (*SaveResult, error) {
	if !a.IsAdmin() {
		return nil, apperr.Authorization("You don't have permission.")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.rows[uid]
	if !ok || r.state != Editing {
		return nil, apperr.Validation("Row is not being edited.")
	}

	delete(e.rows, uid)
	return &SaveResult{
		UID:       uid,
		RoleLabel: r.originalRole.Label(),
		Companies: companiesDisplay(r.originalRole, r.originalCompanies),
	}, nil
}

// render is the pure view of a session. Callers hold e.mu.
func (e *Editor) render(uid string, r *rowEdit) *EditView {
	return &EditView{
		UID:               uid,
		State:             r.state.String(),
		RoleOptions:       RoleOptions,
		SelectedRole:      r.role.Label(),
		AllCompanies:      r.role.IsAdmin(),
		CompanyOptions:    e.options,
		SelectedCompanies: append([]string(nil), r.companies...),
	}
}
