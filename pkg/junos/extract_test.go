package junos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxpfx/pkg/model"
)

const sampleConfig = `{
  "configuration": [{
    "protocols": [{
      "bgp": [{
        "group": [
          {
            "name": {"data": "Qatar_v4"},
            "peer-as": [{"data": "65501"}],
            "family": [{"inet": [{"unicast": [{"prefix-limit": [{"maximum": [{"data": "4000"}]}]}]}]}]
          },
          {
            "name": {"data": "Qatar_v6"},
            "peer-as": [{"data": "65501"}],
            "family": [{"inet6": [{"unicast": [{"prefix-limit": [{"maximum": [{"data": "200"}]}]}]}]}]
          },
          {
            "name": {"data": "upstream-transit"},
            "peer-as": [{"data": "64496"}]
          },
          {
            "name": {"data": "ixp_v4"},
            "peer-as": [{"data": "64500"}],
            "family": [{"inet": [{"unicast": [{"prefix-limit": [{"maximum": [{"data": "12000"}]}]}]}]}]
          }
        ]
      }]
    }]
  }]
}`

func TestExtractPeers(t *testing.T) {
	doc, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	records, err := ExtractPeers(doc)
	require.NoError(t, err)

	// transit group has no family block, so no record; output is ordered by
	// (ASN, family).
	require.Len(t, records, 3)
	assert.Equal(t, model.PeerRecord{ASN: 64500, Family: model.IPv4, GroupName: "ixp_v4", ConfiguredLimit: 12000}, records[0])
	assert.Equal(t, model.PeerRecord{ASN: 65501, Family: model.IPv4, GroupName: "Qatar_v4", ConfiguredLimit: 4000}, records[1])
	assert.Equal(t, model.PeerRecord{ASN: 65501, Family: model.IPv6, GroupName: "Qatar_v6", ConfiguredLimit: 200}, records[2])
}

func TestParseRejectsMissingNesting(t *testing.T) {
	for name, raw := range map[string]string{
		"empty object":   `{}`,
		"no protocols":   `{"configuration": [{}]}`,
		"no bgp":         `{"configuration": [{"protocols": [{}]}]}`,
		"not json":       `<rpc-reply/>`,
		"wrong leaf type": `{"configuration": [{"protocols": [{"bgp": [{"group": [{"name": {"data": 5}}]}]}]}]}`,
	} {
		_, err := Parse([]byte(raw))
		var perr *ParseError
		require.ErrorAs(t, err, &perr, name)
	}
}

func TestExtractPeersMalformedGroupIsFatal(t *testing.T) {
	for name, groups := range map[string]string{
		"missing maximum": `{
			"name": {"data": "g1"}, "peer-as": [{"data": "64500"}],
			"family": [{"inet": [{"unicast": [{}]}]}]}`,
		"missing peer-as": `{
			"name": {"data": "g2"},
			"family": [{"inet": [{"unicast": [{"prefix-limit": [{"maximum": [{"data": "10"}]}]}]}]}]}`,
		"non-numeric maximum": `{
			"name": {"data": "g3"}, "peer-as": [{"data": "64500"}],
			"family": [{"inet": [{"unicast": [{"prefix-limit": [{"maximum": [{"data": "lots"}]}]}]}]}]}`,
		"empty family block": `{
			"name": {"data": "g4"}, "peer-as": [{"data": "64500"}],
			"family": [{}]}`,
	} {
		raw := `{"configuration": [{"protocols": [{"bgp": [{"group": [` + groups + `]}]}]}]}`
		doc, err := Parse([]byte(raw))
		require.NoError(t, err, name)
		_, err = ExtractPeers(doc)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, name)
	}
}

// A group carrying both families is ambiguous in the source data; inet takes
// fixed precedence.
func TestExtractPeersInetPrecedence(t *testing.T) {
	raw := `{"configuration": [{"protocols": [{"bgp": [{"group": [{
		"name": {"data": "both"}, "peer-as": [{"data": "64500"}],
		"family": [{
			"inet":  [{"unicast": [{"prefix-limit": [{"maximum": [{"data": "100"}]}]}]}],
			"inet6": [{"unicast": [{"prefix-limit": [{"maximum": [{"data": "50"}]}]}]}]
		}]}]}]}]}]}`
	doc, err := Parse([]byte(raw))
	require.NoError(t, err)
	records, err := ExtractPeers(doc)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.IPv4, records[0].Family)
	assert.Equal(t, 100, records[0].ConfiguredLimit)
}

// The same (ASN, family) in two groups keeps the last group, never two
// records.
func TestExtractPeersDuplicateKeyLastWins(t *testing.T) {
	raw := `{"configuration": [{"protocols": [{"bgp": [{"group": [
		{"name": {"data": "old"}, "peer-as": [{"data": "64500"}],
		 "family": [{"inet": [{"unicast": [{"prefix-limit": [{"maximum": [{"data": "100"}]}]}]}]}]},
		{"name": {"data": "new"}, "peer-as": [{"data": "64500"}],
		 "family": [{"inet": [{"unicast": [{"prefix-limit": [{"maximum": [{"data": "150"}]}]}]}]}]}
	]}]}]}]}`
	doc, err := Parse([]byte(raw))
	require.NoError(t, err)
	records, err := ExtractPeers(doc)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0].GroupName)
	assert.Equal(t, 150, records[0].ConfiguredLimit)
}
