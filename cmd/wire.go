package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/entityauth/entitykit/internal/adapters/entityapi"
	tomlkv "github.com/entityauth/entitykit/internal/adapters/kv/toml"
	"github.com/entityauth/entitykit/internal/adapters/realtime/ws"
	accountsrender "github.com/entityauth/entitykit/internal/adapters/render/accounts"
	repokv "github.com/entityauth/entitykit/internal/adapters/repo/kv"
	chainstore "github.com/entityauth/entitykit/internal/adapters/secrets/chain"
	filestore "github.com/entityauth/entitykit/internal/adapters/secrets/file"
	passstore "github.com/entityauth/entitykit/internal/adapters/secrets/pass"
	"github.com/entityauth/entitykit/internal/adapters/sso"
	"github.com/entityauth/entitykit/internal/application"
	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/metrics"
	"github.com/entityauth/entitykit/internal/ports"
	"github.com/entityauth/entitykit/internal/session"
)

// Command annotations read while wiring.
const (
	annotationOffline     = "entitykit/offline"
	annotationSkipRestore = "entitykit/skip-restore"
	annotationRealtime    = "entitykit/realtime"
)

type app struct {
	configPath string
	verbose    bool

	cfg      config
	logger   *zap.Logger
	store    *session.Store
	service  *application.Service
	sso      *sso.Flow
	registry *prometheus.Registry

	accountsRenderer func([]application.AccountSummary, accountsrender.RenderOptions) (string, error)
	sessionRenderer  func(domain.Snapshot, accountsrender.RenderOptions) (string, error)
	now              func() time.Time
}

func newApp() *app {
	return &app{
		accountsRenderer: accountsrender.Render,
		sessionRenderer:  accountsrender.RenderSession,
		now:              time.Now,
	}
}

func offline(cmd *cobra.Command) *cobra.Command {
	return annotate(cmd, annotationOffline)
}

func skipRestore(cmd *cobra.Command) *cobra.Command {
	return annotate(cmd, annotationSkipRestore)
}

func withRealtime(cmd *cobra.Command) *cobra.Command {
	return annotate(cmd, annotationRealtime)
}

func annotate(cmd *cobra.Command, key string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[key] = "true"
	return cmd
}

// wire builds the service for cmd and restores the last session unless the
// command opts out.
func (a *app) wire(cmd *cobra.Command) error {
	if cmd.Annotations[annotationOffline] == "true" {
		return nil
	}

	if err := loadDotEnv(); err != nil {
		return err
	}
	v, cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)

	state, err := tomlkv.NewStore(v)
	if err != nil {
		return fmt.Errorf("wire state store: %w", err)
	}

	secrets, err := newSecretStore(cfg)
	if err != nil {
		return fmt.Errorf("wire secret store: %w", err)
	}

	client, err := entityapi.NewClient(entityapi.Config{
		BaseURL:        cfg.APIBaseURL,
		TenantID:       cfg.TenantID,
		RequestTimeout: cfg.APITimeout,
	})
	if err != nil {
		return fmt.Errorf("wire api client: %w", err)
	}

	var realtime ports.RealtimeSource
	if cmd.Annotations[annotationRealtime] == "true" && cfg.RealtimeURL != "" {
		source, err := ws.NewSource(ws.Config{
			URL:      cfg.RealtimeURL,
			TenantID: cfg.TenantID,
			Logger:   a.logger.Named("realtime"),
		})
		if err != nil {
			return fmt.Errorf("wire realtime source: %w", err)
		}
		realtime = source
	}

	flow, err := sso.NewFlow(sso.Config{
		BaseURL:        cfg.APIBaseURL,
		ClientID:       cfg.SSOClientID,
		TenantID:       cfg.TenantID,
		ListenAddr:     cfg.SSOListen,
		RequestTimeout: cfg.APITimeout,
	})
	if err != nil {
		return fmt.Errorf("wire sso flow: %w", err)
	}

	registry, m := metrics.NewRegistry()
	store := session.NewStore(a.logger, m)

	a.registry = registry
	a.store = store
	a.sso = flow
	a.service = application.NewService(application.Dependencies{
		Store:         store,
		Auth:          client.Auth(),
		Organizations: client.Organizations(),
		Identity:      client.Identity(),
		Secrets:       secrets,
		State:         state,
		Registry:      repokv.NewRegistry(state),
		Realtime:      realtime,
		Clock:         ports.SystemClock{},
		Logger:        a.logger,
		Metrics:       m,
		TenantID:      cfg.TenantID,
		RefreshSkew:   cfg.RefreshSkew,
	})

	if cmd.Annotations[annotationSkipRestore] == "true" {
		return nil
	}
	if err := a.service.Restore(cmd.Context()); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	return nil
}

func (a *app) close() {
	if a.service != nil {
		a.service.StopRealtime()
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newSecretStore(cfg config) (ports.SecretStore, error) {
	switch cfg.SecretsBackend {
	case "", secretsBackendChain:
		return chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir)
	case secretsBackendFile:
		if cfg.SecretsDir == "" {
			return nil, errors.New("secrets dir is empty")
		}
		return filestore.NewStore(cfg.SecretsDir), nil
	case secretsBackendPass:
		return passstore.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported secrets backend %q", cfg.SecretsBackend)
	}
}
