// Package reconcile decides, per configured peer and family, whether the
// router's prefix limit matches what PeeringDB says it should be.
package reconcile

import (
	"fmt"
	"sort"

	"maxpfx/pkg/headroom"
	"maxpfx/pkg/model"
)

// ASNs returns the distinct peer identities across both families, ascending.
// A peer configured for v4 and v6 appears once, so PeeringDB is queried at
// most once per network, and successive runs produce diffable output.
func ASNs(records []model.PeerRecord) []int {
	seen := make(map[int]bool, len(records))
	out := make([]int, 0, len(records))
	for _, rec := range records {
		if seen[rec.ASN] {
			continue
		}
		seen[rec.ASN] = true
		out = append(out, rec.ASN)
	}
	sort.Ints(out)
	return out
}

// Classify joins every extracted record with its PeeringDB report and
// assigns a disposition:
//
//	UNRATED     - PeeringDB has no usable count (0 for the family, or no
//	              entry for the ASN at all; the latter is also recorded as
//	              an omission)
//	MATCH       - configured limit equals the headroom recommendation
//	RECONFIGURE - configured limit is below it and must be raised
//	EXCEPTION   - configured limit is above it; deliberate, never lowered
//
// Results are ordered by (ASN, family).
func Classify(records []model.PeerRecord, reports map[int]model.RegistryReport) ([]model.ReconciliationResult, []model.Omission, error) {
	results := make([]model.ReconciliationResult, 0, len(records))
	var omissions []model.Omission
	omitted := make(map[int]bool)

	for _, rec := range records {
		report, ok := reports[rec.ASN]
		if !ok {
			if !omitted[rec.ASN] {
				omitted[rec.ASN] = true
				omissions = append(omissions, model.Omission{ASN: rec.ASN, Reason: "no PeeringDB entry"})
			}
			results = append(results, model.ReconciliationResult{
				ASN:             rec.ASN,
				Family:          rec.Family,
				ConfiguredLimit: rec.ConfiguredLimit,
				Disposition:     model.Unrated,
			})
			continue
		}

		reported := report.Count(rec.Family)
		recommended, multiplier, err := headroom.Recommend(reported)
		if err != nil {
			return nil, nil, fmt.Errorf("asn %d %s: %w", rec.ASN, rec.Family, err)
		}

		result := model.ReconciliationResult{
			ASN:              rec.ASN,
			Family:           rec.Family,
			ConfiguredLimit:  rec.ConfiguredLimit,
			ReportedCount:    reported,
			RecommendedLimit: recommended,
			Multiplier:       multiplier,
		}
		switch {
		case recommended == 0:
			result.Disposition = model.Unrated
		case rec.ConfiguredLimit == recommended:
			result.Disposition = model.Match
		case rec.ConfiguredLimit < recommended:
			result.Disposition = model.Reconfigure
		default:
			result.Disposition = model.Exception
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].ASN != results[j].ASN {
			return results[i].ASN < results[j].ASN
		}
		return results[i].Family < results[j].Family
	})
	sort.Slice(omissions, func(i, j int) bool { return omissions[i].ASN < omissions[j].ASN })
	return results, omissions, nil
}
