package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
)

var (
	// CommonConfig means config object
	CommonConfig *Config
)

type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`
	// Options for services
	Ledger *LedgerConfig `mapstructure:"ledger"`
	Order  *OrderConfig  `mapstructure:"order"`
}

// Default configurable parameters.
func DefaultConfig() *Config {
	return &Config{
		BaseConfig: DefaultBaseConfig(),
		Ledger:     DefaultLedgerConfig(),
		Order:      DefaultOrderConfig(),
	}
}

// Set the RootDir for all Config structs
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

//-----------------------------------------------------------------------------
// BaseConfig
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	//log level to set
	LogLevel string `mapstructure:"log_level"`

	// Database backend: goleveldb | memdb
	DBBackend string `mapstructure:"db_backend"`

	// Database directory
	DBPath string `mapstructure:"db_dir"`

	// log file name
	LogFile string `mapstructure:"log_file"`

	// Log file rotation in hours, 0 keeps a single file
	LogRotationHours int `mapstructure:"log_rotation_hours"`
}

// Default configurable base parameters.
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		LogLevel:         "info",
		DBBackend:        "goleveldb",
		DBPath:           "data",
		LogFile:          "log",
		LogRotationHours: 24,
	}
}

func (b BaseConfig) DBDir() string {
	return rootify(b.DBPath, b.RootDir)
}

func (b BaseConfig) LogDir() string {
	return rootify(b.LogFile, b.RootDir)
}

// LedgerConfig tunes the in-process ledger.
type LedgerConfig struct {
	VerdictCacheSize int    `mapstructure:"verdict_cache_size"`
	SigCacheSize     int    `mapstructure:"sig_cache_size"`
	Fee              uint64 `mapstructure:"fee"`
	MinAda           uint64 `mapstructure:"min_ada"`
	GenesisAda       uint64 `mapstructure:"genesis_ada"`
	GenesisAssets    uint64 `mapstructure:"genesis_assets"`
}

// Default configurable ledger parameters.
func DefaultLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		VerdictCacheSize: 1024,
		SigCacheSize:     4096,
		Fee:              200000,
		MinAda:           2000000,
		GenesisAda:       100000000000,
		GenesisAssets:    1000000,
	}
}

// OrderConfig names the order script.
type OrderConfig struct {
	TokenName string `mapstructure:"token_name"`
}

// Default configurable order parameters.
func DefaultOrderConfig() *OrderConfig {
	return &OrderConfig{
		TokenName: "val",
	}
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// DefaultDataDir is the default data directory to use for the databases and other
// persistence requirements.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := homeDir()
	if home == "" {
		return "./.escrow"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Escrow")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Escrow")
	default:
		return filepath.Join(home, ".escrow")
	}
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
