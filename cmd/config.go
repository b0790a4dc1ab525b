package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	tomlkv "github.com/entityauth/entitykit/internal/adapters/kv/toml"
)

const (
	envPrefix  = "ENTITYKIT"
	configDir  = ".entitykit"
	configName = "config"

	keyAPIBaseURL     = "api.base_url"
	keyAPITimeout     = "api.timeout"
	keyRealtimeURL    = "realtime.url"
	keyTenantID       = "tenant.id"
	keyRefreshSkew    = "session.refresh_skew"
	keySecretsDir     = "secrets.dir"
	keySecretsBackend = "secrets.backend"
	keySSOClientID    = "sso.client_id"
	keySSOListen      = "sso.listen"
	keySSOTimeout     = "sso.timeout"
)

const (
	secretsBackendChain = "chain"
	secretsBackendFile  = "file"
	secretsBackendPass  = "pass"
)

type config struct {
	APIBaseURL     string
	APITimeout     time.Duration
	RealtimeURL    string
	TenantID       string
	RefreshSkew    time.Duration
	SecretsDir     string
	SecretsBackend string
	SSOClientID    string
	SSOListen      string
	SSOTimeout     time.Duration
}

// loadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// loadConfig layers defaults, ~/.entitykit/config.toml (or path) and
// ENTITYKIT_* environment variables.
func loadConfig(path string) (*viper.Viper, config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyAPIBaseURL, "https://api.entityauth.com")
	v.SetDefault(keyAPITimeout, 30*time.Second)
	v.SetDefault(keyRealtimeURL, "")
	v.SetDefault(keyTenantID, "")
	v.SetDefault(keyRefreshSkew, time.Minute)
	v.SetDefault(tomlkv.StatePathKey, filepath.Join(homeDir, configDir, "state.toml"))
	v.SetDefault(keySecretsDir, filepath.Join(homeDir, configDir, "secrets"))
	v.SetDefault(keySecretsBackend, secretsBackendChain)
	v.SetDefault(keySSOClientID, "entitykit-cli")
	v.SetDefault(keySSOListen, "127.0.0.1:0")
	v.SetDefault(keySSOTimeout, 5*time.Minute)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := config{
		APIBaseURL:     strings.TrimSpace(v.GetString(keyAPIBaseURL)),
		APITimeout:     v.GetDuration(keyAPITimeout),
		RealtimeURL:    strings.TrimSpace(v.GetString(keyRealtimeURL)),
		TenantID:       strings.TrimSpace(v.GetString(keyTenantID)),
		RefreshSkew:    v.GetDuration(keyRefreshSkew),
		SecretsDir:     strings.TrimSpace(v.GetString(keySecretsDir)),
		SecretsBackend: strings.ToLower(strings.TrimSpace(v.GetString(keySecretsBackend))),
		SSOClientID:    strings.TrimSpace(v.GetString(keySSOClientID)),
		SSOListen:      strings.TrimSpace(v.GetString(keySSOListen)),
		SSOTimeout:     v.GetDuration(keySSOTimeout),
	}

	return v, cfg, nil
}

// newLogger writes human-readable logs to w, warnings and above unless
// verbose.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)

	return zap.New(core)
}
