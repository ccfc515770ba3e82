package peeringdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxpfx/pkg/model"
)

func TestLookup(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":[{"info_prefixes4":4000,"info_prefixes6":200}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil, zerolog.Nop())
	report, found, err := c.Lookup(context.Background(), 65501)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "/net?asn=65501", gotPath)
	assert.Equal(t, "Api-Key secret", gotAuth)
	assert.Equal(t, model.RegistryReport{ASN: 65501, Prefixes4: 4000, Prefixes6: 200}, report)
}

func TestLookupNoEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil, zerolog.Nop())
	_, found, err := c.Lookup(context.Background(), 64496)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil, zerolog.Nop())
	_, _, err := c.Lookup(context.Background(), 64496)
	var lerr *LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 64496, lerr.ASN)
}

func TestLookupMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil, zerolog.Nop())
	_, _, err := c.Lookup(context.Background(), 64496)
	var lerr *LookupError
	require.ErrorAs(t, err, &lerr)
}

func TestCacheSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"data":[{"info_prefixes4":10,"info_prefixes6":5}]}`))
	}))
	defer srv.Close()

	cache, err := OpenCache(filepath.Join(t.TempDir(), "pdb.db"), time.Hour, zerolog.Nop())
	require.NoError(t, err)
	defer cache.Close()

	c := NewClient(srv.URL, "", cache, zerolog.Nop())
	first, found, err := c.Lookup(context.Background(), 64500)
	require.NoError(t, err)
	require.True(t, found)

	second, found, err := c.Lookup(context.Background(), 64500)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCacheExpiry(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "pdb.db"), -time.Second, zerolog.Nop())
	require.NoError(t, err)
	defer cache.Close()

	cache.Put(model.RegistryReport{ASN: 64500, Prefixes4: 10})
	_, ok := cache.Get(64500)
	assert.False(t, ok, "entry older than ttl must not be served")
}
