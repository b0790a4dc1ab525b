package sso

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
)

const callbackPath = "/sso/callback"

var (
	ErrStateMismatch = errors.New("sso callback state mismatch")
	ErrMissingState  = errors.New("expected state is required")
)

// callbackServer receives exactly one redirect from the identity provider on a
// loopback address.
type callbackServer struct {
	expectedState string
	listener      net.Listener
	server        *http.Server
	resultCh      chan callbackResult
	resultOnce    sync.Once
	closeOnce     sync.Once
}

type callbackResult struct {
	code string
	err  error
}

func startCallbackServer(listenAddr string, expectedState string) (*callbackServer, error) {
	if expectedState == "" {
		return nil, ErrMissingState
	}
	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen sso callback: %w", err)
	}

	cb := &callbackServer{
		expectedState: expectedState,
		listener:      listener,
		resultCh:      make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, cb.handle)
	cb.server = &http.Server{Handler: mux}

	go func() {
		if err := cb.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cb.deliver(callbackResult{err: err})
		}
	}()

	return cb, nil
}

func (c *callbackServer) redirectURI() string {
	if addr, ok := c.listener.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://127.0.0.1:%d%s", addr.Port, callbackPath)
	}
	return "http://127.0.0.1" + callbackPath
}

func (c *callbackServer) wait(ctx context.Context) (string, error) {
	select {
	case result := <-c.resultCh:
		return result.code, result.err
	case <-ctx.Done():
		return "", fmt.Errorf("wait for sso callback: %w", ctx.Err())
	}
}

func (c *callbackServer) close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.server.Close()
	})
	return err
}

func (c *callbackServer) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("state") != c.expectedState {
		c.deliver(callbackResult{err: ErrStateMismatch})
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}
	if providerErr := query.Get("error"); providerErr != "" {
		if description := query.Get("error_description"); description != "" {
			providerErr += ": " + description
		}
		c.deliver(callbackResult{err: fmt.Errorf("sso provider: %s", providerErr)})
		http.Error(w, "sign-in failed", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		c.deliver(callbackResult{err: errors.New("missing authorization code")})
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	c.deliver(callbackResult{code: code})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Signed in. You can close this window."))
}

func (c *callbackServer) deliver(result callbackResult) {
	c.resultOnce.Do(func() {
		c.resultCh <- result
	})
}
