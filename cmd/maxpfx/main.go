// maxpfx compares the max-prefix limits configured on a Juniper router with
// what each peer publishes in PeeringDB and writes Junos set commands for the
// peers whose limits need raising. Intended to run from cron; -adhoc prints
// the comparison tables instead of staying quiet.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"maxpfx/pkg/creds"
	"maxpfx/pkg/history"
	"maxpfx/pkg/junos"
	"maxpfx/pkg/logging"
	"maxpfx/pkg/model"
	"maxpfx/pkg/peeringdb"
	"maxpfx/pkg/pipeline"
	"maxpfx/pkg/report"
	"maxpfx/pkg/runlock"
	"maxpfx/pkg/version"
)

type options struct {
	adhoc       bool
	suppress    bool
	outDir      string
	configJSON  string
	useCache    bool
	useLock     bool
	saveHistory bool
}

func main() {
	var o options
	flag.BoolVar(&o.adhoc, "adhoc", false, "run in ad hoc mode (print result tables to stdout)")
	flag.BoolVar(&o.suppress, "suppress", true, "in ad hoc mode, hide peers whose config already matches PeeringDB")
	flag.StringVar(&o.outDir, "out", ".", "directory for generated command files")
	flag.StringVar(&o.configJSON, "config-json", "", "read the BGP config from a captured JSON file instead of the router")
	flag.BoolVar(&o.useCache, "cache", true, "cache PeeringDB responses locally between runs")
	flag.BoolVar(&o.useLock, "lock", false, "serialize runs for this router via a Consul lock")
	flag.BoolVar(&o.saveHistory, "history", false, "export run results to MySQL")
	logLevel := flag.String("log-level", "", "log level (overrides LOG_LEVEL env)")
	showVersion := flag.Bool("v", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("maxpfx version=%s\n", version.Build)
		return
	}

	cfg, err := creds.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	log := logging.New(cfg.LogLevel)

	// run owns the lock and cache lifetimes; exiting only from here keeps
	// their deferred releases intact.
	if err := run(cfg, o, log); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg creds.Config, o options, log zerolog.Logger) error {
	var src pipeline.ConfigSource
	if o.configJSON != "" {
		src = junos.FileSource{Path: o.configJSON}
	} else {
		if err := cfg.ValidateRouter(); err != nil {
			return fmt.Errorf("router credentials: %w", err)
		}
		src = &junos.Client{Host: cfg.RouterHost, User: cfg.Username, KeyFile: cfg.KeyFile}
	}

	if o.useLock {
		lock, err := runlock.Acquire(cfg.ConsulAddr, cfg.RouterName)
		if err != nil {
			return fmt.Errorf("run lock for %s: %w", cfg.RouterName, err)
		}
		defer lock.Release()
	}

	var cache *peeringdb.Cache
	if o.useCache {
		var err error
		cache, err = peeringdb.OpenCache(cfg.CachePath, cfg.CacheTTL, log)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.CachePath).Msg("PeeringDB cache unavailable, continuing without")
			cache = nil
		} else {
			defer cache.Close()
		}
	}
	registry := peeringdb.NewClient(cfg.PDBBaseURL, cfg.PDBAPIKey, cache, log)

	started := time.Now()
	outcome, err := pipeline.Run(context.Background(), src, registry, o.outDir, log)
	if err != nil {
		return err
	}
	for _, path := range outcome.Written {
		fmt.Printf("changes written to %s\n", path)
	}
	if len(outcome.Written) == 0 {
		log.Info().Msg("no reconfiguration needed")
	}

	if o.adhoc {
		if err := report.Print(os.Stdout, outcome.Results, outcome.Omissions, o.suppress); err != nil {
			return fmt.Errorf("render tables: %w", err)
		}
	}

	if o.saveHistory {
		exportHistory(cfg.RouterName, started, outcome, log)
	}
	return nil
}

// exportHistory is best effort: the command files are already written, so a
// broken MySQL target only costs the historical record.
func exportHistory(router string, started time.Time, outcome *pipeline.Outcome, log zerolog.Logger) {
	store, err := history.Open()
	if err != nil {
		log.Error().Err(err).Msg("history export unavailable")
		return
	}
	run := model.RunRecord{
		Router:    router,
		StartedAt: started,
		Peers:     len(outcome.Records),
		Omissions: len(outcome.Omissions),
	}
	for _, r := range outcome.Results {
		switch r.Disposition {
		case model.Reconfigure:
			run.Reconfigure++
		case model.Exception:
			run.Exceptions++
		case model.Unrated:
			run.Unrated++
		}
	}
	if err := store.SaveRun(run, outcome.Results); err != nil {
		log.Error().Err(err).Msg("history export failed")
	}
}
