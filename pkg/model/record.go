package model

// PeerRecord is one configured prefix limit extracted from the router, one
// per (ASN, family) pair. ASN is unique and authoritative and is the join
// key against PeeringDB; GroupName is carried only so set commands can be
// rendered later.
type PeerRecord struct {
	ASN             int    `json:"asn"`
	Family          Family `json:"family"`
	GroupName       string `json:"groupName"`
	ConfiguredLimit int    `json:"configuredLimit"`
}

// RegistryReport holds the prefix counts a network publishes in PeeringDB.
// A family the network has not listed is reported as 0.
type RegistryReport struct {
	ASN       int `json:"asn"`
	Prefixes4 int `json:"info_prefixes4"`
	Prefixes6 int `json:"info_prefixes6"`
}

// Count returns the published count for the given family.
func (r RegistryReport) Count(f Family) int {
	if f == IPv6 {
		return r.Prefixes6
	}
	return r.Prefixes4
}
