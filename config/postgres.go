package config

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// PostgresConfig defines the configuration for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`

	// SSM parameter names holding the production credentials.
	HostParam     string `mapstructure:"host_param"`
	UserParam     string `mapstructure:"user_param"`
	PasswordParam string `mapstructure:"password_param"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN builds the connection string. In "prod" the host, user and password are
// resolved from AWS SSM Parameter Store; otherwise the configured values are used.
func (cfg *PostgresConfig) DSN(env string) (string, error) {
	c, err := cfg.credentials(env)
	if err != nil {
		return "", err
	}
	return cfg.dsn(c, cfg.DBName), nil
}

// AdminDSN points at the default "postgres" database, used to create the
// application database before connecting to it.
func (cfg *PostgresConfig) AdminDSN(env string) (string, error) {
	c, err := cfg.credentials(env)
	if err != nil {
		return "", err
	}
	return cfg.dsn(c, "postgres"), nil
}

type pgCredentials struct {
	host, user, password string
}

// credentials returns the configured values, overridden in "prod" by every
// SSM parameter that is named. A failed SSM lookup is an error, not a fallback.
func (cfg *PostgresConfig) credentials(env string) (pgCredentials, error) {
	c := pgCredentials{host: cfg.Host, user: cfg.User, password: cfg.Password}
	if env != "prod" {
		return c, nil
	}

	// Collect the parameter names that are configured
	names := make([]string, 0, 3)
	for _, n := range []string{cfg.HostParam, cfg.UserParam, cfg.PasswordParam} {
		if n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return c, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Fetch them in one round trip
	values, err := fetchParameters(ctx, names)
	if err != nil {
		return c, fmt.Errorf("resolve postgres credentials: %w", err)
	}
	return overrideCredentials(c, cfg, values)
}

// overrideCredentials applies SSM values onto c. Every named parameter must be present.
func overrideCredentials(c pgCredentials, cfg *PostgresConfig, values map[string]string) (pgCredentials, error) {
	for _, f := range []struct {
		name   string
		target *string
	}{
		{cfg.HostParam, &c.host},
		{cfg.UserParam, &c.user},
		{cfg.PasswordParam, &c.password},
	} {
		if f.name == "" {
			continue
		}
		v, ok := values[f.name]
		if !ok {
			return c, fmt.Errorf("ssm parameter %q not found", f.name)
		}
		*f.target = v
	}
	return c, nil
}

func (cfg *PostgresConfig) dsn(c pgCredentials, dbName string) string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.host, cfg.Port, c.user, c.password, dbName, cfg.SSLMode,
	)
	if cfg.TimeZone != "" {
		dsn += " TimeZone=" + cfg.TimeZone
	}
	return dsn
}

// fetchParameters reads decrypted SecureString parameters from SSM in one call.
// Names SSM does not know are absent from the result.
func fetchParameters(ctx context.Context, names []string) (map[string]string, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	out, err := ssm.NewFromConfig(awsCfg).GetParameters(ctx, &ssm.GetParametersInput{
		Names:          names,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get ssm parameters: %w", err)
	}

	values := make(map[string]string, len(out.Parameters))
	for _, p := range out.Parameters {
		if p.Name != nil && p.Value != nil {
			values[*p.Name] = *p.Value
		}
	}
	return values, nil
}
