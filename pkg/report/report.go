// Package report renders the ad hoc result tables, one per address family,
// plus the exception tables for peers we deliberately over-provision.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"maxpfx/pkg/model"
)

var mainHeaders = []any{"ASN", "current config", "PeeringDB", "multiplier", "new max", "disposition"}

// Print writes the v4 and v6 tables to w. With suppress on (the default)
// only peers needing reconfiguration appear in the main tables, the
// exceptions move to their own tables and unrated peers are listed with
// the omissions, so no classified peer drops out of the output entirely;
// with suppress off every classified peer is listed in the main tables.
// Omissions are always listed last.
func Print(w io.Writer, results []model.ReconciliationResult, omissions []model.Omission, suppress bool) error {
	for _, family := range []model.Family{model.IPv4, model.IPv6} {
		fmt.Fprintf(w, "%s results\n", family)
		if err := renderMain(w, results, family, suppress); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if suppress && hasException(results) {
		fmt.Fprintln(w, "The following networks are advertising more prefixes than listed in PeeringDB.")
		fmt.Fprintln(w, "The router is manually configured with the following values.")
		for _, family := range []model.Family{model.IPv4, model.IPv6} {
			if err := renderExceptions(w, results, family); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
	}

	if suppress {
		omitted := make(map[int]bool, len(omissions))
		for _, o := range omissions {
			omitted[o.ASN] = true
		}
		for _, r := range results {
			if r.Disposition != model.Unrated || omitted[r.ASN] {
				continue
			}
			fmt.Fprintf(w, "unrated AS%d %s: PeeringDB publishes no usable count (configured %d)\n",
				r.ASN, r.Family, r.ConfiguredLimit)
		}
	}

	for _, o := range omissions {
		fmt.Fprintf(w, "skipped AS%d: %s\n", o.ASN, o.Reason)
	}
	return nil
}

func hasException(results []model.ReconciliationResult) bool {
	for _, r := range results {
		if r.Disposition == model.Exception {
			return true
		}
	}
	return false
}

func renderMain(w io.Writer, results []model.ReconciliationResult, family model.Family, suppress bool) error {
	table := tablewriter.NewTable(w)
	table.Header(mainHeaders...)
	for _, r := range results {
		if r.Family != family {
			continue
		}
		if suppress && r.Disposition != model.Reconfigure {
			continue
		}
		if err := table.Append(row(r)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderExceptions(w io.Writer, results []model.ReconciliationResult, family model.Family) error {
	table := tablewriter.NewTable(w)
	table.Header("ASN", "current config", "PeeringDB", "multiplier", "recommended")
	for _, r := range results {
		if r.Family != family || r.Disposition != model.Exception {
			continue
		}
		if err := table.Append(
			strconv.Itoa(r.ASN),
			strconv.Itoa(r.ConfiguredLimit),
			strconv.Itoa(r.ReportedCount),
			multiplier(r),
			strconv.Itoa(r.RecommendedLimit),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func row(r model.ReconciliationResult) []any {
	return []any{
		strconv.Itoa(r.ASN),
		strconv.Itoa(r.ConfiguredLimit),
		strconv.Itoa(r.ReportedCount),
		multiplier(r),
		strconv.Itoa(r.RecommendedLimit),
		string(r.Disposition),
	}
}

func multiplier(r model.ReconciliationResult) string {
	if r.Multiplier == 0 {
		return "-"
	}
	return strconv.FormatFloat(r.Multiplier, 'f', 1, 64)
}
