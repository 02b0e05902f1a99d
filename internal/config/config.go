package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DoyleJ11/cardroom-backend/internal/store"
)

const (
	EnvPrefix      = "CARDROOM"
	ReleaseVersion = "0.4.0"
)

type Config struct {
	Bind           string
	Port           int
	DBDriver       string
	DatabaseURL    string
	AdminPassword  string
	ReapInterval   time.Duration
	IdleTimeout    time.Duration
	PublicURL      string
	AllowedOrigins []string
	Verbose        bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	switch c.DBDriver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("unknown --db-driver %q (want %s or %s)", c.DBDriver, store.DriverSQLite, store.DriverPostgres)
	}
	if c.DatabaseURL == "" {
		return errors.New("--database-url must not be empty")
	}
	if c.AdminPassword == "" {
		return errors.New("--admin-password must be set")
	}
	if c.ReapInterval <= 0 || c.IdleTimeout <= 0 {
		return errors.New("--reap-interval and --idle-timeout must be positive")
	}
	if u, err := url.Parse(c.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid --public-url %q", c.PublicURL)
	}
	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// NewCommand builds the root command. Every flag can also be set through
// a CARDROOM_ environment variable.
func NewCommand(cfg *Config, run func(ctx context.Context, cfg *Config) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "cardroom",
		Short:   "Realtime backend for a party card game.",
		Args:    cobra.ExactArgs(0),
		Version: ReleaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: CARDROOM_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: CARDROOM_PORT)")
	fs.StringVar(&cfg.DBDriver, "db-driver", store.DriverSQLite, "database driver, sqlite or postgres (env: CARDROOM_DB_DRIVER)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", "cardroom.db", "database dsn or sqlite file (env: CARDROOM_DATABASE_URL)")
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "shared password for deck and room administration (env: CARDROOM_ADMIN_PASSWORD)")
	fs.DurationVar(&cfg.ReapInterval, "reap-interval", 15*time.Minute, "how often idle rooms are checked (env: CARDROOM_REAP_INTERVAL)")
	fs.DurationVar(&cfg.IdleTimeout, "idle-timeout", time.Hour, "time before an idle room is closed (env: CARDROOM_IDLE_TIMEOUT)")
	fs.StringVar(&cfg.PublicURL, "public-url", "http://localhost:8080", "base url used in invitation links (env: CARDROOM_PUBLIC_URL)")
	fs.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", nil, "extra websocket origin patterns, comma separated (env: CARDROOM_ALLOWED_ORIGINS)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log at debug level (env: CARDROOM_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("cardroom v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
