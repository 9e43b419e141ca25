package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

const usersCollection = "users"

// ProfileRepository persists user profiles as Firestore documents keyed by
// the identity provider uid.
type ProfileRepository struct {
	client *firestore.Client
}

func NewProfileRepository(client *firestore.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

func (r *ProfileRepository) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(uid)
}

// Get retrieves a profile by uid.
func (r *ProfileRepository) Get(ctx context.Context, uid string) (*domain.Profile, error) {
	snap, err := r.doc(uid).Get(ctx)
	if snap != nil && !snap.Exists() {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", uid, err)
	}

	var p domain.Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", uid, err)
	}
	if p.UID == "" {
		p.UID = snap.Ref.ID
	}
	return &p, nil
}

// Create writes a new profile document. The write is non-merging and fails
// if a document already exists for the uid; server timestamps fill the three
// time fields via the struct tags.
func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	if p.UID == "" {
		return fmt.Errorf("profile uid required")
	}
	if _, err := r.doc(p.UID).Create(ctx, p); err != nil {
		return fmt.Errorf("create profile %s: %w", p.UID, err)
	}
	return nil
}

// LoginRefresh holds the identity fields a login is allowed to touch.
// Role, companyIds and features are deliberately absent.
type LoginRefresh struct {
	DisplayName   string
	PhotoURL      string
	Provider      string
	EmailVerified bool
}

// RefreshLogin merge-updates the safe identity fields plus the updatedAt and
// lastLoginAt server timestamps.
func (r *ProfileRepository) RefreshLogin(ctx context.Context, uid string, in LoginRefresh) error {
	_, err := r.doc(uid).Set(ctx, map[string]interface{}{
		"displayName":   in.DisplayName,
		"photoURL":      in.PhotoURL,
		"provider":      in.Provider,
		"emailVerified": in.EmailVerified,
		"updatedAt":     firestore.ServerTimestamp,
		"lastLoginAt":   firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("refresh profile %s: %w", uid, err)
	}
	return nil
}

// UpdateAccess persists the admin-edited authorization fields. Nothing else
// on the document is touched.
func (r *ProfileRepository) UpdateAccess(ctx context.Context, uid string, role domain.Role, companyIDs []string, features domain.Features) error {
	if companyIDs == nil {
		companyIDs = []string{}
	}
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{Path: "role", Value: role},
		{Path: "companyIds", Value: companyIDs},
		{Path: "features", Value: features},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("update access %s: %w", uid, err)
	}
	return nil
}

// List returns every profile ordered by email ascending.
func (r *ProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	iter := r.client.Collection(usersCollection).OrderBy("email", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := make([]*domain.Profile, 0, 16)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}

		var p domain.Profile
		if err := snap.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", snap.Ref.ID, err)
		}
		if p.UID == "" {
			p.UID = snap.Ref.ID
		}
		out = append(out, &p)
	}
	return out, nil
}
