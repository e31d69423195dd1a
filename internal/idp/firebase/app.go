// Package firebase implements the identity provider on Firebase Authentication.
package firebase

import (
	"context"
	"fmt"

	"capstone_backend/platform/config"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// NewApp initialises the Firebase app shared by the auth client and Firestore.
// Without a credentials file the SDK falls back to application default
// credentials, and honours FIREBASE_AUTH_EMULATOR_HOST / FIRESTORE_EMULATOR_HOST.
func NewApp(ctx context.Context, cfg config.FirebaseConfig) (*firebase.App, error) {
	conf := &firebase.Config{ProjectID: cfg.GetFirebaseProjectID()}

	var opts []option.ClientOption
	if file := cfg.GetFirebaseCredentialsFile(); file != "" {
		opts = append(opts, option.WithCredentialsFile(file))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return app, nil
}
