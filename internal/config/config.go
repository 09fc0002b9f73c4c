package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Fallbacks used when neither a flag nor the environment sets a field.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 3306
	DefaultUser     = "root"
	DefaultDatabase = "ALX_prodev"
)

// Environment variables read by ApplyEnv.
const (
	EnvHost     = "MYSQL_HOST"
	EnvPort     = "MYSQL_PORT"
	EnvUser     = "MYSQL_USER"
	EnvPassword = "MYSQL_PASSWORD"
	EnvDatabase = "MYSQL_DATABASE"
)

// Config holds MySQL connection parameters.
type Config struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
	Database string `json:"database"`
}

// Default returns the fallback configuration. The password is empty.
func Default() Config {
	return Config{
		Host:     DefaultHost,
		Port:     DefaultPort,
		User:     DefaultUser,
		Database: DefaultDatabase,
	}
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv returns Default overlaid with the environment read through lookup.
func FromEnv(lookup LookupFunc) (Config, error) {
	c := Default()
	err := c.ApplyEnv(lookup, nil)
	return c, err
}

// ApplyEnv sets each field from its environment variable when the variable
// is non-empty and pinned does not report the variable as overridden.
// pinned may be nil.
func (c *Config) ApplyEnv(lookup LookupFunc, pinned func(key string) bool) error {
	get := func(key string) (string, bool) {
		if pinned != nil && pinned(key) {
			return "", false
		}
		v, ok := lookup(key)
		return v, ok && v != ""
	}
	if v, ok := get(EnvHost); ok {
		c.Host = v
	}
	if v, ok := get(EnvUser); ok {
		c.User = v
	}
	if v, ok := get(EnvPassword); ok {
		c.Password = v
	}
	if v, ok := get(EnvDatabase); ok {
		c.Database = v
	}
	if v, ok := get(EnvPort); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: invalid port %q", EnvPort, v)
		}
		c.Port = n
	}
	return nil
}

// Validate reports obviously unusable settings.
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("config: empty host")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.User == "" {
		return errors.New("config: empty user")
	}
	return nil
}

// DSN returns the go-sql-driver DSN for the configured database.
func (c Config) DSN() string {
	return c.driverConfig().FormatDSN()
}

// ServerDSN returns a DSN that selects no default database.
func (c Config) ServerDSN() string {
	mc := c.driverConfig()
	mc.DBName = ""
	return mc.FormatDSN()
}

func (c Config) driverConfig() *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Database
	mc.ParseTime = true
	return mc
}

// String returns Config without the password.
func (c Config) String() string {
	return fmt.Sprintf("mysql{%s:%d user=%s db=%s}", c.Host, c.Port, c.User, c.Database)
}

// LoadEnvFiles loads each existing file into the process environment.
// Missing files are skipped; variables already set are not overwritten.
// It returns the files that were loaded.
func LoadEnvFiles(paths ...string) ([]string, error) {
	var loaded []string
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, fmt.Errorf("config: load %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}
