// Package creds loads router credentials and tool settings into an explicit
// Config struct. Values come from the environment, optionally seeded from a
// .env file in the working directory.
package creds

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything one run needs. It is passed through the pipeline
// entry point; nothing reads process-wide state after Load returns.
type Config struct {
	RouterName string // display name of the target router
	RouterHost string // host[:port], port defaults to 22
	Username   string // read-only login is sufficient
	KeyFile    string // ssh private key path

	PDBBaseURL string // PeeringDB API base
	PDBAPIKey  string // optional Api-Key header value

	CachePath string        // sqlite cache for PeeringDB responses
	CacheTTL  time.Duration // how long a cached entry stays fresh

	ConsulAddr string // consul agent for the optional run lock
	LogLevel   string
}

// Load reads .env (when present) and the environment.
// Env:
//
//	ROUTER_NAME, ROUTER_HOST, SSH_USER, SSH_KEYFILE
//	PDB_BASE_URL, PDB_API_KEY, PDB_CACHE_PATH, PDB_CACHE_TTL
//	CONSUL_ADDR, LOG_LEVEL
func Load() (Config, error) {
	_ = loadDotEnv()
	cfg := Config{
		RouterName: getenv("ROUTER_NAME", "MyAwesomeRouter"),
		RouterHost: getenv("ROUTER_HOST", "IPaddr"),
		Username:   os.Getenv("SSH_USER"),
		KeyFile:    os.Getenv("SSH_KEYFILE"),
		PDBBaseURL: getenv("PDB_BASE_URL", "https://www.peeringdb.com/api"),
		PDBAPIKey:  os.Getenv("PDB_API_KEY"),
		CachePath:  getenv("PDB_CACHE_PATH", "/var/lib/maxpfx/pdbcache.db"),
		CacheTTL:   envDuration("PDB_CACHE_TTL", 24*time.Hour),
		ConsulAddr: getenv("CONSUL_ADDR", "127.0.0.1:8500"),
		LogLevel:   getenv("LOG_LEVEL", "info"),
	}
	return cfg, nil
}

// ValidateRouter refuses the placeholder credentials shipped in the example
// .env so the tool never tries to dial a made-up target.
func (c Config) ValidateRouter() error {
	if c.RouterName == "MyAwesomeRouter" || c.RouterHost == "IPaddr" {
		return fmt.Errorf("edit .env with real values for the target router (ROUTER_NAME/ROUTER_HOST)")
	}
	if c.RouterHost == "" {
		return fmt.Errorf("ROUTER_HOST is required")
	}
	if c.Username == "" {
		return fmt.Errorf("SSH_USER is required")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}
