package model

// Disposition classifies a peer/family pair after comparing its configured
// limit with the PeeringDB-derived recommendation.
type Disposition string

const (
	// Match means no change is needed.
	Match Disposition = "MATCH"
	// Reconfigure means the configured limit is below the recommendation
	// and must be raised.
	Reconfigure Disposition = "RECONFIGURE"
	// Exception means the configured limit is deliberately above the
	// recommendation, usually because the peer's PeeringDB entry is stale.
	// Surfaced for visibility, never auto-corrected downward.
	Exception Disposition = "EXCEPTION"
	// Unrated means PeeringDB had no usable count for the family, so there
	// is no external signal to act on.
	Unrated Disposition = "UNRATED"
)

// ReconciliationResult is the outcome for one (ASN, family) pair. It does
// not carry the group name; the set-command generator re-joins by
// (ASN, family) against the extracted records.
type ReconciliationResult struct {
	ASN              int         `json:"asn"`
	Family           Family      `json:"family"`
	ConfiguredLimit  int         `json:"configuredLimit"`
	ReportedCount    int         `json:"reportedCount"`
	RecommendedLimit int         `json:"recommendedLimit"`
	Multiplier       float64     `json:"multiplier"`
	Disposition      Disposition `json:"disposition"`
}

// Omission records an ASN that was configured on the router but could not be
// reconciled because PeeringDB had no entry for it. Reported at the end of a
// run, never fatal.
type Omission struct {
	ASN    int    `json:"asn"`
	Reason string `json:"reason"`
}
