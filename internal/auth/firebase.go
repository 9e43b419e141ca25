package auth

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/SioxGlobal/performance-dashboard/config"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns the Auth
// client plus the Firestore client backing the users collection.
func InitializeFirebase(cfg *config.FirebaseConfig) (*auth.Client, *firestore.Client, error) {
	if cfg.CredentialsPath == "" {
		return nil, nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(context.Background(), &firebase.Config{ProjectID: cfg.ProjectID}, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	fsClient, err := app.Firestore(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	return authClient, fsClient, nil
}
