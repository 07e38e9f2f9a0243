// SPDX-License-Identifier: Apache-2.0

// hacksm-migrate is the user-facing binary that drives migrate(path) for
// every path given on the command line.
package main

import (
	"context"
	"fmt"
	"os"
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
	"github.com/hacksm-project/hacksm/internal/dmapi/simprovider"
	"github.com/hacksm-project/hacksm/internal/doctor"
	"github.com/hacksm-project/hacksm/internal/migrator"
	"github.com/hacksm-project/hacksm/internal/store"
	"github.com/hacksm-project/hacksm/pkg/erx"
	"github.com/hacksm-project/hacksm/pkg/exit"
	"github.com/hacksm-project/hacksm/pkg/fsx"
)

var (
	flagConfig               string
	flagCleanup              bool
	flagQuiescenceOverrideMs int
)

var rootCmd = &cobra.Command{
	Use:   "hacksm-migrate [paths...]",
	Short: "Migrate resident file content into the content store",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	rootCmd.Flags().BoolVarP(&flagCleanup, "cleanup", "c", false, "respond CONTINUE to every outstanding token and exit")
	rootCmd.Flags().IntVarP(&flagQuiescenceOverrideMs, "wait", "w", 0, "override the quiescence gap, in milliseconds")
}

func initConfig() error {
	if err := config.Initialize(flagConfig); err != nil {
		return err
	}

	viper.SetEnvPrefix("hacksm")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return nil
}

func run(ctx context.Context, paths []string) error {
	cfg := config.Get().Hacksm

	// A signal cancels the context rather than killing the process outright,
	// so an in-flight Migrate unwinds through its deferred Respond and the
	// event token is released instead of leaking to the next cleanup pass.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fsMgr, err := fsx.NewManager()
	if err != nil {
		return err
	}

	provider, err := simprovider.NewProvider(core.Paths().LockDir, fsMgr)
	if err != nil {
		return err
	}

	session, err := provider.RecoverOrCreateSession(ctx, cfg.SessionNameMigrate)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	st, err := store.New(cfg.StoreBasePath)
	if err != nil {
		return err
	}

	quiescenceDelay := cfg.QuiescenceDelay
	if flagQuiescenceOverrideMs > 0 {
		quiescenceDelay = time.Duration(flagQuiescenceOverrideMs) * time.Millisecond
	}

	m := migrator.New(session, st, quiescenceDelay, cfg.AntiThrashWindow, cfg.QuiescenceRecheck)

	if flagCleanup {
		return m.Cleanup()
	}

	if len(paths) == 0 {
		return erx.NewIllegalArgumentError(nil, "paths", "at least one path is required", nil)
	}

	log := logx.As()
	failed := 0
	for _, path := range paths {
		outcome, err := m.Migrate(ctx, path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("migrate failed")
			fmt.Fprintf(os.Stderr, "hacksm-migrate: %s: %v\n", path, err)
			failed++
			continue
		}
		log.Info().Str("path", path).Str("outcome", outcome.String()).Msg("migrate finished")
	}

	if failed > 0 {
		return erx.NewCommandError(nil, exit.GeneralError,
			fmt.Sprintf("%d of %d paths failed to migrate", failed, len(paths)))
	}
	return nil
}

func main() {
	traceID := uuid.NewString()
	ctx := context.WithValue(context.Background(), "traceId", traceID)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		doctor.CheckErr(ctx, err)
	}
}
