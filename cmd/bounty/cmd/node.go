package cmd

import (
	"encoding/json"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/gittensor/bounty-go-node/api"
	"github.com/gittensor/bounty-go-node/core/bounty"
	"github.com/gittensor/bounty-go-node/core/statistics"
	"github.com/gittensor/bounty-go-node/core/types"
	"github.com/gittensor/bounty-go-node/log"
	"github.com/spf13/cobra"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// RunNode is the command that allows the CLI to start a node.
var RunNode = &cobra.Command{
	Use:   "node",
	Short: "Run the bounty ledger node",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runNode(cmd)
	},
}

func init() {
	RunNode.Flags().Duration("block-time", 5*time.Second, "interval between state commits")
}

func runNode(cmd *cobra.Command) error {
	logger := log.InitLog(cfg)

	ledger, err := bounty.NewLedger(cfg, logger)
	if err != nil {
		return err
	}

	if ledger.Height() == 0 {
		if err := initGenesis(ledger, logger); err != nil {
			return err
		}
	}

	stats := statistics.New()

	if cfg.InstrumentationListenAddress != "" {
		go func() {
			addr := strings.TrimPrefix(cfg.InstrumentationListenAddress, "tcp://")
			logger.Error("instrumentation server stopped", "err", stats.Serve(cmd.Context(), addr))
		}()
	}

	go func() {
		logger.Error("api server stopped", "err", api.RunApi(ledger, cfg, stats, logger))
	}()

	blockTime, err := cmd.Flags().GetDuration("block-time")
	if err != nil {
		return err
	}

	go produceBlocks(cmd, ledger, stats, blockTime, logger)

	<-cmd.Context().Done()

	return ledger.Close()
}

// produceBlocks commits the pending state on a fixed interval. Every commit
// advances the ledger height by one.
func produceBlocks(cmd *cobra.Command, ledger *bounty.Ledger, stats *statistics.Data, blockTime time.Duration, logger tmlog.Logger) {
	ticker := time.NewTicker(blockTime)
	defer ticker.Stop()

	for {
		select {
		case <-cmd.Context().Done():
			return
		case <-ticker.C:
			start := time.Now()
			if _, err := ledger.Commit(); err != nil {
				logger.Error("failed to commit state", "err", err)
				os.Exit(1)
			}
			stats.SetLastBlockInfo(ledger.Height(), time.Since(start))
		}
	}
}

type genesisStake struct {
	Address types.Address `json:"address"`
	Weight  string        `json:"weight"`
}

type genesisDoc struct {
	AppState types.AppState `json:"app_state"`
	Stakes   []genesisStake `json:"stakes"`
}

func initGenesis(ledger *bounty.Ledger, logger tmlog.Logger) error {
	data, err := os.ReadFile(cfg.GenesisFile())
	if err != nil {
		return err
	}

	var doc genesisDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	if err := ledger.InitGenesis(doc.AppState); err != nil {
		return err
	}

	for _, stake := range doc.Stakes {
		weight, ok := big.NewInt(0).SetString(stake.Weight, 10)
		if !ok {
			continue
		}
		ledger.Oracle().SetWeight(stake.Address, weight)
	}

	if _, err := ledger.Commit(); err != nil {
		return err
	}

	logger.Info("initialized ledger from genesis", "height", ledger.Height())

	return nil
}
