package cmd

import (
	"os"
	"path/filepath"

	"github.com/gittensor/bounty-go-node/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg     *config.Config
	homeDir string
)

var RootCmd = &cobra.Command{
	Use:   "bounty",
	Short: "Bounty competition ledger node",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if homeDir == "" {
			homeDir = config.DefaultHome()
		}

		cfg = config.GetConfig(homeDir)

		v := viper.New()
		v.SetConfigFile(filepath.Join(homeDir, "config", "config.toml"))

		if err := v.ReadInConfig(); err != nil {
			panic(err)
		}

		if err := v.Unmarshal(cfg); err != nil {
			panic(err)
		}

		cfg.SetRoot(homeDir)

		if cfg.KeepLastStates < 1 {
			panic("keep_last_states field should be greater than 0")
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&homeDir, "home-dir", os.Getenv("BOUNTYHOME"), "base dir (default is $HOME/.bounty)")
}
