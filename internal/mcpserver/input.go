package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/studentrecords/conformance"
	"github.com/studentrecords/conformance/contract"
	"github.com/studentrecords/conformance/internal/options"
)

// contractInput represents the ways an OpenAPI contract can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type contractInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

// contractCache holds compiled contracts for the session. File inputs are
// keyed by (absolutePath, modTime), content inputs by a SHA-256 hash and URL
// inputs by the URL.
var contractCache = struct {
	once sync.Once
	lru  *expirable.LRU[string, *contract.Contract]
}{}

func cache() *expirable.LRU[string, *contract.Contract] {
	contractCache.once.Do(func() {
		contractCache.lru = expirable.NewLRU[string, *contract.Contract](cfg.CacheMaxSize, nil, cfg.CacheTTL)
	})
	return contractCache.lru
}

// makeCacheKey creates a cache key for the given input, or "" when the input
// cannot be cached.
func makeCacheKey(in contractInput) string {
	switch {
	case in.File != "":
		absPath, err := filepath.Abs(in.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case in.Content != "":
		h := sha256.Sum256([]byte(in.Content))
		return "content:" + hex.EncodeToString(h[:])
	case in.URL != "":
		return "url:" + in.URL
	default:
		return ""
	}
}

var contractSources = []string{"file", "url", "content"}

// resolve compiles the contract from whichever input was provided, using
// the session cache when it is enabled.
func (in contractInput) resolve(ctx context.Context) (*contract.Contract, error) {
	err := options.ValidateSingleInputSource(contractSources, map[string]bool{
		"file":    in.File != "",
		"url":     in.URL != "",
		"content": in.Content != "",
	})
	if err != nil {
		return nil, err
	}

	if in.Content != "" && int64(len(in.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set CONFORMANCE_MAX_INLINE_SIZE to increase",
			len(in.Content), cfg.MaxInlineSize)
	}

	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(in)
	}
	if key != "" {
		if cached, ok := cache().Get(key); ok {
			return cached, nil
		}
	}

	var c *contract.Contract
	switch {
	case in.File != "":
		c, err = contract.Load(in.File, contract.WithContext(ctx))
	case in.URL != "":
		var data []byte
		data, err = fetch(ctx, in.URL)
		if err == nil {
			c, err = contract.LoadBytes(data, contract.WithSourceName(in.URL), contract.WithContext(ctx))
		}
	default:
		c, err = contract.LoadBytes([]byte(in.Content), contract.WithSourceName("content"), contract.WithContext(ctx))
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		cache().Add(key, c)
	}
	return c, nil
}

// fetch downloads a contract document, reading at most cfg.MaxInlineSize bytes.
func fetch(ctx context.Context, url string) ([]byte, error) {
	var client *resty.Client
	if cfg.AllowPrivateIPs {
		client = resty.New().SetTimeout(cfg.FetchTimeout)
	} else {
		client = resty.NewWithClient(newSafeHTTPClient(cfg.FetchTimeout))
	}
	client.SetResponseBodyLimit(int(cfg.MaxInlineSize))

	resp, err := client.R().
		SetContext(ctx).
		SetHeader("User-Agent", conformance.UserAgent()).
		Get(url)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, fmt.Errorf("document at %s exceeds maximum %d bytes", url, cfg.MaxInlineSize)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}
