package commands

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfg "github.com/bytom/escrow/config"
	"github.com/bytom/escrow/crypto/ed25519"
	"github.com/bytom/escrow/log"
)

const logModule = "cmd"

var (
	config = cfg.DefaultConfig()
)

// RootCmd is the command for run the ledger
var RootCmd = &cobra.Command{
	Use:          "escrowd",
	Short:        "Order escrow on an in-process utxo ledger.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		root, err := expandHome(viper.GetString("home"))
		if err != nil {
			return err
		}

		viper.SetConfigFile(filepath.Join(root, "config.toml"))
		if err := viper.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "read config file")
		}

		if err := viper.Unmarshal(config); err != nil {
			return err
		}

		config.SetRoot(root)
		ed25519.InitCacheWithSize(config.Ledger.SigCacheSize)
		if cmd.Name() == initFilesCmd.Name() {
			return nil
		}
		return log.InitLogFile(config)
	},
}

func init() {
	RootCmd.PersistentFlags().String("home", cfg.DefaultDataDir(), "Root directory for config and data")
	RootCmd.PersistentFlags().String("log_level", config.LogLevel, "Select log level(debug, info, warn, error or fatal)")
	RootCmd.PersistentFlags().String("db_backend", config.DBBackend, "Database backend: goleveldb or memdb")
}

func expandHome(root string) (string, error) {
	pathParts := strings.SplitN(root, "/", 2)
	if len(pathParts) == 2 && (pathParts[0] == "~" || pathParts[0] == "$HOME") {
		usr, err := user.Current()
		if err != nil {
			return "", err
		}
		pathParts[0] = usr.HomeDir
		root = strings.Join(pathParts, "/")
	}
	return root, nil
}
