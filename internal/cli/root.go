// Package cli 實作 petchef 命令列工具
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	recipeService "petchef/internal/core/recipe"
	"petchef/internal/infrastructure/store"
	"petchef/internal/pkg/common"
)

// app 命令之間共用的狀態
type app struct {
	v   *viper.Viper
	now func() time.Time
}

// NewRootCmd 建立 petchef 根命令
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), now: time.Now}
	var cfgFile string

	root := &cobra.Command{
		Use:           "petchef",
		Short:         "Match recipes for humans and pets against a fridge inventory",
		Long:          `petchef ranks human and pet recipes against what is in the fridge, pairs them into duos that share a base dish, and estimates pet calories per meal. It works offline on a YAML catalog or against a running API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.v.SetEnvPrefix("PETCHEF")
			a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			a.v.AutomaticEnv()
			if cfgFile != "" {
				a.v.SetConfigFile(cfgFile)
				if err := a.v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config file: %w", err)
				}
			}
			return a.v.BindPFlags(cmd.Flags())
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file with flag defaults (yaml)")

	root.AddCommand(
		newRankCmd(a),
		newDuoCmd(a),
		newCaloriesCmd(a),
		newRemoteCmd(a),
	)
	return root
}

// Execute 執行根命令
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadCatalog 將 YAML 目錄載入記憶體儲存並建立服務
func (a *app) loadCatalog(ctx context.Context) (*recipeService.Service, error) {
	seed, err := store.LoadSeed(a.v.GetString("catalog"))
	if err != nil {
		return nil, err
	}

	now := a.now()
	st := store.NewMemoryStore()
	if err := store.SeedIfEmpty(ctx, st, seed, now); err != nil {
		return nil, err
	}
	return recipeService.NewService(st, nil).WithClock(func() time.Time { return now }), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	return common.WriteIndentedJSON(w, v)
}

func addCatalogFlag(cmd *cobra.Command) {
	cmd.Flags().String("catalog", "", "YAML catalog of inventory, pets and recipes (default: built-in demo household)")
}
