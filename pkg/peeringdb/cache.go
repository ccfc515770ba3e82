package peeringdb

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"maxpfx/pkg/model"
)

// Cache keeps PeeringDB responses in a local sqlite file so a cron schedule
// tighter than the TTL does not re-query the registry for every peer. Cache
// failures degrade to network lookups; they never fail the run.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	log zerolog.Logger
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string, ttl time.Duration, log zerolog.Logger) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := "file:" + path + "?_pragma=busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS pdb_net(
		asn INTEGER PRIMARY KEY,
		prefixes4 INTEGER NOT NULL,
		prefixes6 INTEGER NOT NULL,
		fetched_at INTEGER NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db, ttl: ttl, log: log}, nil
}

// Get returns the cached report for asn if it is still fresh.
func (c *Cache) Get(asn int) (model.RegistryReport, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var p4, p6 int
	var fetchedAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT prefixes4, prefixes6, fetched_at FROM pdb_net WHERE asn=?`, asn).
		Scan(&p4, &p6, &fetchedAt)
	if err == sql.ErrNoRows {
		return model.RegistryReport{}, false
	}
	if err != nil {
		c.log.Warn().Err(err).Int("asn", asn).Msg("pdb cache read failed")
		return model.RegistryReport{}, false
	}
	if time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return model.RegistryReport{}, false
	}
	return model.RegistryReport{ASN: asn, Prefixes4: p4, Prefixes6: p6}, true
}

// Put stores a freshly fetched report, replacing any stale row.
func (c *Cache) Put(r model.RegistryReport) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO pdb_net(asn, prefixes4, prefixes6, fetched_at) VALUES(?,?,?,?)`,
		r.ASN, r.Prefixes4, r.Prefixes6, time.Now().Unix())
	if err != nil {
		c.log.Warn().Err(err).Int("asn", r.ASN).Msg("pdb cache write failed")
	}
}

func (c *Cache) Close() error { return c.db.Close() }
