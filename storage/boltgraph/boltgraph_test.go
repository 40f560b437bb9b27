package boltgraph

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relatedb/queryengine/storagetest"
)

func TestStorageSuite(t *testing.T) {
	g, err := Open(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	defer g.Close()

	storagetest.RunSuite(t, g)
}
