package commands

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfg "github.com/bytom/escrow/config"
)

var initFilesCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the ledger root directory",
	RunE:  initFiles,
}

func init() {
	initFilesCmd.Flags().Uint64("ledger.fee", config.Ledger.Fee, "Lovelace paid by every built transaction")
	initFilesCmd.Flags().String("order.token_name", config.Order.TokenName, "Name of the order validity token")

	RootCmd.AddCommand(initFilesCmd)
}

func initFiles(cmd *cobra.Command, args []string) error {
	configFilePath := filepath.Join(config.RootDir, "config.toml")
	if _, err := os.Stat(configFilePath); !os.IsNotExist(err) {
		log.WithFields(log.Fields{"module": logModule, "config": configFilePath}).Info("Already exists config file.")
		return nil
	}

	if err := cfg.EnsureRoot(config.RootDir, config); err != nil {
		return err
	}

	log.WithFields(log.Fields{"module": logModule, "config": configFilePath}).Info("Initialized escrow ledger")
	return nil
}
