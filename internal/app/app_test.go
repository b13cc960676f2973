package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyxed/rentcrawl/internal/config"
)

func writeSourceConfig(t *testing.T, dir, name, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(doc), 0o644))
}

func memoryConfig(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	writeSourceConfig(t, dir, "pararius", `{
		"startUrlTemplates": ["https://www.pararius.nl/huurwoningen/{citySlug}"],
		"list": {"itemLink": "a.listing-search-item__link--title"}
	}`)

	return config.Config{
		Server: config.ServerConfig{Port: 8080},
		Crawler: config.CrawlerConfig{
			SourcesDir: dir,
			Sources:    []string{"pararius"},
			Cities:     []string{"Utrecht"},
		},
		Fetcher: config.FetcherConfig{
			UserAgent:      "rentcrawl-test",
			Concurrency:    2,
			TimeoutSeconds: 5,
		},
		Store: config.StoreConfig{Backend: "memory"},
	}
}

func TestBuildWithMemoryBackend(t *testing.T) {
	a, err := Build(context.Background(), memoryConfig(t))
	require.NoError(t, err)
	require.NotNil(t, a.engine)
	require.NotNil(t, a.apiServer)
	require.Len(t, a.sources, 1)
	require.NoError(t, a.Close(context.Background()))
}

func TestBuildSkipsBrokenSourceConfig(t *testing.T) {
	cfg := memoryConfig(t)
	writeSourceConfig(t, cfg.Crawler.SourcesDir, "broken", `{not json`)
	cfg.Crawler.Sources = []string{"broken", "pararius"}

	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, a.sources, 1, "a malformed source document disables that source only")
	require.NoError(t, a.Close(context.Background()))
}

func TestBuildFailsWithoutUsableSources(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Crawler.Sources = []string{"missing"}

	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no usable source configs")
}

func TestBuildRejectsUnknownBackend(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Store.Backend = "redis"

	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown store backend")
}

func TestBuildWithRateLimit(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 2, Burst: 1}

	a, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, a.Close(context.Background()))
}
