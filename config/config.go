package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	sdk "github.com/dbkit-project/sdk"
)

// Config is the on-disk SDK configuration.
type Config struct {
	Profiles    []Profile   `mapstructure:"profiles" yaml:"profiles"`
	Preferences Preferences `mapstructure:"preferences" yaml:"preferences"`
}

// Profile is a saved database connection profile.
type Profile struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Driver   string `mapstructure:"driver" yaml:"driver"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Database string `mapstructure:"database" yaml:"database"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
	// Path locates the database file for file-backed drivers such as
	// sqlite and duckdb.
	Path string `mapstructure:"path" yaml:"path"`
}

// Preferences holds settings shared by every profile.
type Preferences struct {
	// Timezone names the IANA timezone temporal values resolve in.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
	// DefaultProfile names the profile used when none is requested.
	DefaultProfile string `mapstructure:"default_profile" yaml:"default_profile"`
}

// DSN builds the connection string for the profile's driver. File-backed
// drivers use Path directly.
func (p Profile) DSN() string {
	switch p.Driver {
	case "sqlite", "duckdb":
		return p.Path
	}

	dsn := "postgresql://"
	if p.Username != "" {
		dsn += p.Username
		if p.Password != "" {
			dsn += ":" + p.Password
		}
		dsn += "@"
	}
	dsn += p.Host
	if p.Port > 0 {
		dsn += ":" + strconv.Itoa(p.Port)
	}
	dsn += "/" + p.Database
	if p.SSLMode != "" {
		dsn += "?sslmode=" + p.SSLMode
	}
	return dsn
}

// ParseDSN parses a PostgreSQL connection string into a Profile.
func ParseDSN(dsn string) (Profile, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Profile{}, fmt.Errorf("invalid DSN: %w", err)
	}

	p := Profile{
		Driver:   "postgres",
		Host:     u.Hostname(),
		Database: trimPrefix(u.Path, "/"),
		SSLMode:  u.Query().Get("sslmode"),
	}

	if u.User != nil {
		p.Username = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			p.Password = pw
		}
	}

	if portStr := u.Port(); portStr != "" {
		p.Port, _ = strconv.Atoi(portStr)
	}
	if p.Port == 0 {
		p.Port = 5432
	}

	p.Name = fmt.Sprintf("postgres-%s-%d-%s", p.Host, p.Port, p.Database)
	return p, nil
}

// Profile returns the named profile, or nil when no profile carries the
// name.
func (cfg *Config) Profile(name string) *Profile {
	for i := range cfg.Profiles {
		if cfg.Profiles[i].Name == name {
			return &cfg.Profiles[i]
		}
	}
	return nil
}

// DefaultProfile returns the preferred profile, falling back to the first
// one. It returns nil when no profiles exist.
func (cfg *Config) DefaultProfile() *Profile {
	if len(cfg.Profiles) == 0 {
		return nil
	}
	if cfg.Preferences.DefaultProfile != "" {
		if p := cfg.Profile(cfg.Preferences.DefaultProfile); p != nil {
			return p
		}
	}
	return &cfg.Profiles[0]
}

// AddProfile appends a profile unless one with the same name exists.
func (cfg *Config) AddProfile(p Profile) {
	if cfg.Profile(p.Name) == nil {
		cfg.Profiles = append(cfg.Profiles, p)
	}
}

// Runtime builds the SDK runtime settings implied by the preferences. An
// empty timezone keeps the process-local zone.
func (cfg *Config) Runtime() (sdk.RuntimeConfig, error) {
	rc := sdk.RuntimeConfig{}
	if tz := cfg.Preferences.Timezone; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return sdk.RuntimeConfig{}, fmt.Errorf("timezone %q: %w", tz, err)
		}
		rc.Location = loc
	}
	return rc, nil
}

func trimPrefix(s, prefix string) string {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}
