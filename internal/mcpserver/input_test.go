package mcpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const studentsContract = "../../contract/testdata/students-openapi.yaml"

const petsContract = `openapi: "3.0.3"
info:
  title: Pets
  version: "1.0.0"
paths: {}
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
        name:
          type: string
        tag:
          type: string
          nullable: true
    Error:
      type: object
      required: [status, detail]
      properties:
        status:
          type: integer
        detail:
          type: string
`

func TestContractInput_ResolveFile(t *testing.T) {
	c, err := contractInput{File: studentsContract}.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.0", c.Version())
}

func TestContractInput_ResolveContent(t *testing.T) {
	c, err := contractInput{Content: petsContract}.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", c.Version())
	assert.Equal(t, []string{"Error", "Pet"}, c.Resources())
}

func TestContractInput_ResolveCount(t *testing.T) {
	_, err := contractInput{}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 0")

	_, err = contractInput{File: studentsContract, Content: petsContract}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 2")
}

func TestContractInput_ResolveFileNotFound(t *testing.T) {
	_, err := contractInput{File: "does-not-exist.yaml"}.resolve(context.Background())
	assert.Error(t, err)
}

func TestContractInput_InlineSizeLimit(t *testing.T) {
	saved := cfg.MaxInlineSize
	cfg.MaxInlineSize = 10
	t.Cleanup(func() { cfg.MaxInlineSize = saved })

	_, err := contractInput{Content: petsContract}.resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestContractCache_HitOnSameContent(t *testing.T) {
	cache().Purge()

	first, err := contractInput{Content: petsContract}.resolve(context.Background())
	require.NoError(t, err)
	second, err := contractInput{Content: petsContract}.resolve(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache().Len())
}

func TestContractCache_MissOnModifiedFile(t *testing.T) {
	cache().Purge()

	path := filepath.Join(t.TempDir(), "pets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petsContract), 0o600))

	first, err := contractInput{File: path}.resolve(context.Background())
	require.NoError(t, err)

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := contractInput{File: path}.resolve(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestContractCache_Disabled(t *testing.T) {
	saved := cfg.CacheEnabled
	cfg.CacheEnabled = false
	t.Cleanup(func() { cfg.CacheEnabled = saved })
	cache().Purge()

	first, err := contractInput{Content: petsContract}.resolve(context.Background())
	require.NoError(t, err)
	second, err := contractInput{Content: petsContract}.resolve(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 0, cache().Len())
}

func TestMakeCacheKey(t *testing.T) {
	assert.Empty(t, makeCacheKey(contractInput{}))
	assert.Empty(t, makeCacheKey(contractInput{File: "missing.yaml"}))
	assert.Equal(t, "url:https://api.example.edu/openapi.yaml", makeCacheKey(contractInput{URL: "https://api.example.edu/openapi.yaml"}))
	assert.Regexp(t, `^content:[0-9a-f]{64}$`, makeCacheKey(contractInput{Content: petsContract}))
}

func TestContractInput_ResolveURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(petsContract))
	}))
	defer srv.Close()

	t.Run("private address blocked", func(t *testing.T) {
		_, err := contractInput{URL: srv.URL + "/openapi.yaml"}.resolve(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked request")
	})

	saved := cfg.AllowPrivateIPs
	cfg.AllowPrivateIPs = true
	t.Cleanup(func() { cfg.AllowPrivateIPs = saved })

	t.Run("allowed", func(t *testing.T) {
		c, err := contractInput{URL: srv.URL + "/openapi.yaml"}.resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/openapi.yaml", c.Source())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := contractInput{URL: srv.URL + "/missing.yaml"}.resolve(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 404")
	})
}

func TestFetch_StopsReadingAtLimit(t *testing.T) {
	const total = 64 << 20
	chunk := []byte(strings.Repeat("x", 32<<10))
	var written atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for written.Load() < total {
			n, err := w.Write(chunk)
			written.Add(int64(n))
			if err != nil {
				return
			}
		}
	}))

	savedLimit, savedPrivate := cfg.MaxInlineSize, cfg.AllowPrivateIPs
	cfg.MaxInlineSize = 1024
	cfg.AllowPrivateIPs = true
	t.Cleanup(func() { cfg.MaxInlineSize, cfg.AllowPrivateIPs = savedLimit, savedPrivate })

	_, err := fetch(context.Background(), srv.URL)
	srv.Close()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum 1024 bytes")
	assert.Less(t, written.Load(), int64(total), "server was drained")
}

func TestFetch_WithinLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(petsContract))
	}))
	defer srv.Close()

	saved := cfg.AllowPrivateIPs
	cfg.AllowPrivateIPs = true
	t.Cleanup(func() { cfg.AllowPrivateIPs = saved })

	data, err := fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, petsContract, string(data))
}
