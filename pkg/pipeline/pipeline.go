// Package pipeline runs one complete reconciliation: fetch config, extract
// records, look up PeeringDB, classify, and write command files. Each stage
// fully consumes its input before the next starts; a fatal error anywhere
// aborts before any file is written, so the two command files can never
// disagree with a half-finished classification.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"maxpfx/pkg/junos"
	"maxpfx/pkg/model"
	"maxpfx/pkg/reconcile"
	"maxpfx/pkg/setcmd"
)

// ConfigSource yields the router's BGP configuration document.
// junos.Client (live SSH) and junos.FileSource (offline) both satisfy it.
type ConfigSource interface {
	FetchBGPConfig(ctx context.Context) (*junos.Document, error)
}

// Registry answers per-ASN prefix-count lookups. found=false means the
// registry has no entry, which is an omission rather than an error.
type Registry interface {
	Lookup(ctx context.Context, asn int) (model.RegistryReport, bool, error)
}

// Outcome is everything one run produced, for reporting and history export.
type Outcome struct {
	Records   []model.PeerRecord
	Results   []model.ReconciliationResult
	Omissions []model.Omission
	Written   []string
}

// Run executes the full pipeline and writes any command files to outputDir.
func Run(ctx context.Context, src ConfigSource, reg Registry, outputDir string, log zerolog.Logger) (*Outcome, error) {
	doc, err := src.FetchBGPConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch config: %w", err)
	}
	records, err := junos.ExtractPeers(doc)
	if err != nil {
		return nil, err
	}
	log.Info().Int("records", len(records)).Msg("extracted configured prefix limits")

	// One lookup per distinct ASN, ascending, so successive runs hit the
	// registry identically and output files diff cleanly.
	reports := make(map[int]model.RegistryReport)
	for _, asn := range reconcile.ASNs(records) {
		report, found, err := reg.Lookup(ctx, asn)
		if err != nil {
			return nil, err
		}
		if found {
			reports[asn] = report
		}
	}

	results, omissions, err := reconcile.Classify(records, reports)
	if err != nil {
		return nil, err
	}

	v4, v6 := setcmd.Generate(results, records)
	written, err := setcmd.WriteFiles(outputDir, v4, v6)
	if err != nil {
		return nil, err
	}
	if len(v4) > 0 {
		log.Info().Str("file", setcmd.V4FileName).Int("statements", len(v4)).Msg("changes to v4 peers")
	}
	if len(v6) > 0 {
		log.Info().Str("file", setcmd.V6FileName).Int("statements", len(v6)).Msg("changes to v6 peers")
	}
	for _, o := range omissions {
		log.Warn().Int("asn", o.ASN).Str("reason", o.Reason).Msg("peer skipped")
	}

	return &Outcome{
		Records:   records,
		Results:   results,
		Omissions: omissions,
		Written:   written,
	}, nil
}
