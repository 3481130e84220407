package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const configFileName = "config.toml"

// EnsureRoot creates the root and data directories and writes cfg as the
// config file unless one already exists.
func EnsureRoot(rootDir string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Join(rootDir, "data"), 0700); err != nil {
		return errors.Wrap(err, "create root dir")
	}

	configFilePath := filepath.Join(rootDir, configFileName)
	if _, err := os.Stat(configFilePath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "stat config file")
	}

	data, err := MarshalTOML(cfg)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(configFilePath, data, 0644), "write config file")
}

// MarshalTOML renders the file form of cfg. The root dir is implied by the
// file location and left out.
func MarshalTOML(cfg *Config) ([]byte, error) {
	file := tomlConfig{
		LogLevel:         cfg.LogLevel,
		DBBackend:        cfg.DBBackend,
		DBPath:           cfg.DBPath,
		LogFile:          cfg.LogFile,
		LogRotationHours: cfg.LogRotationHours,
		Ledger: tomlLedger{
			VerdictCacheSize: cfg.Ledger.VerdictCacheSize,
			SigCacheSize:     cfg.Ledger.SigCacheSize,
			Fee:              cfg.Ledger.Fee,
			MinAda:           cfg.Ledger.MinAda,
			GenesisAda:       cfg.Ledger.GenesisAda,
			GenesisAssets:    cfg.Ledger.GenesisAssets,
		},
		Order: tomlOrder{TokenName: cfg.Order.TokenName},
	}

	var buf bytes.Buffer
	buf.WriteString("# This is a TOML config file.\n# For more information, see https://github.com/toml-lang/toml\n")
	if err := toml.NewEncoder(&buf).Encode(file); err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	return buf.Bytes(), nil
}

type tomlConfig struct {
	LogLevel         string     `toml:"log_level"`
	DBBackend        string     `toml:"db_backend"`
	DBPath           string     `toml:"db_dir"`
	LogFile          string     `toml:"log_file"`
	LogRotationHours int        `toml:"log_rotation_hours"`
	Ledger           tomlLedger `toml:"ledger"`
	Order            tomlOrder  `toml:"order"`
}

type tomlLedger struct {
	VerdictCacheSize int    `toml:"verdict_cache_size"`
	SigCacheSize     int    `toml:"sig_cache_size"`
	Fee              uint64 `toml:"fee"`
	MinAda           uint64 `toml:"min_ada"`
	GenesisAda       uint64 `toml:"genesis_ada"`
	GenesisAssets    uint64 `toml:"genesis_assets"`
}

type tomlOrder struct {
	TokenName string `toml:"token_name"`
}
