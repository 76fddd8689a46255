// Package identity adapts the external identity provider (Firebase Auth).
// It is the only place holding the Admin SDK credential; request handlers
// never see more than the external UID it resolves.
package identity

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Provider wraps the initialized Firebase app and its auth client.
type Provider struct {
	app  *firebase.App
	Auth *auth.Client
}

// New initializes the Firebase application and authentication client from a
// service-account credentials file.
func New(ctx context.Context, credentialsPath string) (*Provider, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Println("Firebase app and auth client initialized successfully!")
	return &Provider{app: app, Auth: authClient}, nil
}

// VerifyIDToken checks a provider-issued ID token and returns the stable
// external UID it identifies.
func (p *Provider) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := p.Auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}
