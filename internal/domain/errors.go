package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrTokenBundleNotFound = fmt.Errorf("token bundle %w", ErrNotFound)
	ErrSecretNotFound      = fmt.Errorf("secret %w", ErrNotFound)

	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotSignedIn    = errors.New("not signed in")
	ErrNoRefreshToken = errors.New("no refresh token")

	// ErrSessionReset is returned when a result arrives for a session that has
	// since been reset or replaced.
	ErrSessionReset = errors.New("session was reset")
)

// StatusCoder is implemented by backend errors that carry a numeric status.
type StatusCoder interface {
	StatusCode() int
}

// VaultError is a secure-storage backend failure other than "not found".
type VaultError struct {
	Op     string
	Key    string
	Status int
	Err    error
}

func NewVaultError(op, key string, err error) *VaultError {
	status := -1
	var coder StatusCoder
	if errors.As(err, &coder) {
		status = coder.StatusCode()
	}

	return &VaultError{Op: op, Key: key, Status: status, Err: err}
}

func (e *VaultError) Error() string {
	return fmt.Sprintf("vault %s %q (status %d): %v", e.Op, e.Key, e.Status, e.Err)
}

func (e *VaultError) Unwrap() error {
	return e.Err
}

// StorageError is an encode, decode or persistence failure of the account list.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("account storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type NetworkError struct {
	Status  int
	Message string
}

func (e *NetworkError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Status)
	}

	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Is makes a 401 match ErrUnauthorized.
func (e *NetworkError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

type DecodingError struct {
	What string
	Err  error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.What, e.Err)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// IsAuthorizationError reports whether err should trigger a reactive token
// refresh: an unauthorized response, or a 400 whose message says the token or
// one of its claims is expired or invalid.
func IsAuthorizationError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnauthorized) {
		return true
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) || netErr.Status != http.StatusBadRequest {
		return false
	}

	message := strings.ToLower(netErr.Message)
	if !strings.Contains(message, "expired") && !strings.Contains(message, "invalid") {
		return false
	}

	return strings.Contains(message, "claim") || strings.Contains(message, "token") || strings.Contains(message, "jwt")
}
