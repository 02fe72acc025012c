package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/dayreview/internal/cli"
	"github.com/julianstephens/dayreview/internal/keyring"
	"github.com/julianstephens/dayreview/internal/storage/postgres"
)

type ConfigCmd struct {
	Show            ConfigShowCmd            `cmd:"" help:"Print the resolved configuration." default:"1"`
	SetConnection   ConfigSetConnectionCmd   `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	ClearConnection ConfigClearConnectionCmd `cmd:"" help:"Remove the stored connection string from the OS keyring."`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	backend := "sqlite"
	if cfg.IsPostgres() {
		backend = "postgres"
	}

	rows := [][2]string{
		{"config dir", cfg.ConfigDir},
		{"config file", cfg.EnvFile},
		{"backend", backend},
		{"database", maskPassword(cfg.Database)},
		{"timezone", cfg.Timezone},
		{"log level", cfg.LogLevel},
		{"log dir", cfg.LogDir},
	}
	for _, r := range rows {
		ctx.Printf("%-12s %s\n", cli.FaintStyle.Render(r[0]), r[1])
	}
	return nil
}

type ConfigSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string."`
}

func (c *ConfigSetConnectionCmd) Run(ctx *cli.Context) error {
	if _, err := postgres.ValidateConnString(c.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is encrypted, so an embedded password is tolerated here
		ctx.Println("Warning: connection string contains a password. It will be stored as-is in the OS keyring.")
	}

	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	ctx.Println("Connection string stored in the OS keyring.")
	return nil
}

type ConfigClearConnectionCmd struct{}

func (c *ConfigClearConnectionCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	ctx.Println("Connection string deleted from the OS keyring.")
	return nil
}

// maskPassword hides the password of a PostgreSQL URL or DSN.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		return u.Redacted()
	}
	if !strings.Contains(connStr, "password=") {
		return connStr
	}
	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}
