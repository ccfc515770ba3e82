// Package peeringdb looks up the prefix counts networks publish in
// PeeringDB, one query per ASN, with an optional local cache in front.
package peeringdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"maxpfx/pkg/model"
)

// LookupError is fatal by default: once a lookup fails mid-run there is no
// way to produce a consistent classification, so the run aborts before any
// command file is written.
type LookupError struct {
	ASN int
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("peeringdb: lookup asn %d: %v", e.ASN, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// netEntry is the slice of a PeeringDB net object this tool reads. Both
// counts default to 0 when the network has not listed that family.
type netEntry struct {
	InfoPrefixes4 int `json:"info_prefixes4"`
	InfoPrefixes6 int `json:"info_prefixes6"`
}

type netResponse struct {
	Data []netEntry `json:"data"`
}

// Client queries the PeeringDB /net endpoint. One response carries both
// families, so a peer configured for both is still a single query.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   *Cache
	log     zerolog.Logger
}

// NewClient builds a client for the given API base (no trailing slash).
// cache may be nil to always hit the network.
func NewClient(baseURL, apiKey string, cache *Cache, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
		log:     log,
	}
}

// Lookup returns the published counts for one ASN. found is false when
// PeeringDB has no net object for the ASN; that is an omission for the
// caller to record, not an error.
func (c *Client) Lookup(ctx context.Context, asn int) (model.RegistryReport, bool, error) {
	if c.cache != nil {
		if report, ok := c.cache.Get(asn); ok {
			return report, true, nil
		}
	}

	url := c.baseURL + "/net?asn=" + strconv.Itoa(asn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.RegistryReport{}, false, &LookupError{ASN: asn, Err: err}
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.RegistryReport{}, false, &LookupError{ASN: asn, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.RegistryReport{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return model.RegistryReport{}, false, &LookupError{ASN: asn, Err: fmt.Errorf("status %s", resp.Status)}
	}

	var body netResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.RegistryReport{}, false, &LookupError{ASN: asn, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(body.Data) == 0 {
		return model.RegistryReport{}, false, nil
	}

	report := model.RegistryReport{
		ASN:       asn,
		Prefixes4: body.Data[0].InfoPrefixes4,
		Prefixes6: body.Data[0].InfoPrefixes6,
	}
	if c.cache != nil {
		c.cache.Put(report)
	}
	c.log.Debug().Int("asn", asn).Int("prefixes4", report.Prefixes4).Int("prefixes6", report.Prefixes6).Msg("peeringdb lookup")
	return report, true, nil
}
