package sso

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const ChallengeMethodS256 = "S256"

type PKCE struct {
	Verifier  string
	Challenge string
}

func NewPKCE() (PKCE, error) {
	verifier, err := randomToken(32)
	if err != nil {
		return PKCE{}, fmt.Errorf("generate code verifier: %w", err)
	}

	return PKCE{Verifier: verifier, Challenge: challengeFor(verifier)}, nil
}

func challengeFor(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// NewState returns an unguessable value binding the callback to this sign-in.
func NewState() (string, error) {
	state, err := randomToken(16)
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return state, nil
}

func randomToken(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
