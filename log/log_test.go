package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytom/escrow/config"
)

func TestModuleHook(t *testing.T) {
	dir := t.TempDir()
	hook := NewModuleHook(dir, 0)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(hook)

	logger.WithFields(logrus.Fields{"module": "order", "tx_id": "ab"}).Info("order transaction rejected")
	logger.Info("no module")

	cases := []struct {
		file string
		want string
	}{
		{file: "order.log", want: "order transaction rejected"},
		{file: "general.log", want: "no module"},
	}

	for _, c := range cases {
		data, err := os.ReadFile(filepath.Join(dir, c.file))
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(data), c.want), string(data))
	}
}

func TestInitLogFileBadLevel(t *testing.T) {
	cfg := config.DefaultConfig().SetRoot(t.TempDir())
	cfg.LogLevel = "loud"
	assert.Error(t, InitLogFile(cfg))
}
