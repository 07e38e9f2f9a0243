// SPDX-License-Identifier: Apache-2.0

// hacksmd is the long-running daemon that recalls migrated file content on
// demand and cleans up attribute/store state as managed files are destroyed.
package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/automa-saga/logx"
	"github.com/hacksm-project/hacksm/internal/config"
	"github.com/hacksm-project/hacksm/internal/core"
	"github.com/hacksm-project/hacksm/internal/daemon"
	"github.com/hacksm-project/hacksm/internal/dmapi/simprovider"
	"github.com/hacksm-project/hacksm/internal/doctor"
	"github.com/hacksm-project/hacksm/internal/store"
	"github.com/hacksm-project/hacksm/pkg/fsx"
)

var (
	flagConfig             string
	flagRecoveryOnly       bool
	flagNonBlocking        bool
	flagDebugLevel         int
	flagForkPerEvent       bool
	flagRecallDelaySeconds int
)

var rootCmd = &cobra.Command{
	Use:   "hacksmd",
	Short: "Recall migrated file content on demand",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	rootCmd.Flags().BoolVarP(&flagRecoveryOnly, "cleanup", "c", false, "run the recovery pass only and exit")
	rootCmd.Flags().BoolVarP(&flagNonBlocking, "non-blocking", "N", false, "poll for events instead of waiting")
	rootCmd.Flags().IntVarP(&flagDebugLevel, "debug", "d", 0, "debug verbosity level")
	rootCmd.Flags().BoolVarP(&flagForkPerEvent, "fork", "F", false, "dispatch each batch's events concurrently")
	rootCmd.Flags().IntVarP(&flagRecallDelaySeconds, "recall-delay", "R", 0, "ceiling, in seconds, for a randomized recall delay used in testing")
}

func initConfig() error {
	if err := config.Initialize(flagConfig); err != nil {
		return err
	}

	viper.SetEnvPrefix("hacksm")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flagDebugLevel > 0 {
		logx.As().Info().Int("level", flagDebugLevel).Msg("debug verbosity requested")
	}
	return nil
}

func run(ctx context.Context) error {
	cfg := config.Get().Hacksm

	fsMgr, err := fsx.NewManager()
	if err != nil {
		return err
	}

	provider, err := simprovider.NewProvider(core.Paths().LockDir, fsMgr)
	if err != nil {
		return err
	}

	st, err := store.New(cfg.StoreBasePath)
	if err != nil {
		return err
	}

	recallDelayCeiling := cfg.RecallDelayCeiling
	if flagRecallDelaySeconds > 0 {
		recallDelayCeiling = time.Duration(flagRecallDelaySeconds) * time.Second
	}

	dcfg := daemon.Config{
		SessionName:        cfg.SessionNameDaemon,
		PollInterval:       cfg.PollInterval,
		NonBlocking:        flagNonBlocking || cfg.NonBlocking,
		ForkPerEvent:       flagForkPerEvent || cfg.ForkPerEvent,
		RecallDelayCeiling: recallDelayCeiling,
	}

	d, err := daemon.Start(ctx, provider, st, dcfg)
	if err != nil {
		return err
	}

	if flagRecoveryOnly {
		logx.As().Info().Msg("recovery pass complete, exiting")
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx)
}

func main() {
	traceID := uuid.NewString()
	ctx := context.WithValue(context.Background(), "traceId", traceID)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		doctor.CheckErr(ctx, err)
	}
}
