package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootify(t *testing.T) {
	cases := []struct {
		path, root string
		want       string
	}{
		{path: "data", root: "/home/escrow", want: "/home/escrow/data"},
		{path: "/var/data", root: "/home/escrow", want: "/var/data"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, rootify(c.path, c.root))
	}
}

func TestEnsureRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "escrow")
	cfg := DefaultConfig().SetRoot(root)
	cfg.Ledger.Fee = 12345
	cfg.Order.TokenName = "tok"
	require.NoError(t, EnsureRoot(root, cfg))

	info, err := os.Stat(filepath.Join(root, "data"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	got := tomlConfig{}
	_, err = toml.DecodeFile(filepath.Join(root, configFileName), &got)
	require.NoError(t, err)
	assert.Equal(t, "goleveldb", got.DBBackend)
	assert.Equal(t, uint64(12345), got.Ledger.Fee)
	assert.Equal(t, "tok", got.Order.TokenName)

	// an existing file is left alone
	require.NoError(t, EnsureRoot(root, DefaultConfig()))
	_, err = toml.DecodeFile(filepath.Join(root, configFileName), &got)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), got.Ledger.Fee)
}
