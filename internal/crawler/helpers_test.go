package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyxed/rentcrawl/internal/source"
)

// loadTestConfig round-trips a config document through the real loader so
// derived state (compiled href pattern, singular template fallback) is
// populated the same way production configs get it.
func loadTestConfig(t *testing.T, name, doc string) *source.Config {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(doc), 0o644))

	cfg, err := source.Load(dir, name)
	require.NoError(t, err)
	return cfg
}
