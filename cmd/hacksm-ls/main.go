// SPDX-License-Identifier: Apache-2.0

// hacksm-ls reports the migration state of the given paths without
// acquiring any DMAPI right.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hacksm-project/hacksm/internal/config"
	"github.com/hacksm-project/hacksm/internal/doctor"
	"github.com/hacksm-project/hacksm/internal/lister"
	"github.com/hacksm-project/hacksm/pkg/fsx"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "hacksm-ls [paths...]",
	Short: "Report the migration state of files",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
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

func run(paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	fsMgr, err := fsx.NewManager()
	if err != nil {
		return err
	}

	l := lister.New(fsMgr)
	entries, err := l.List(paths, os.Stderr)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		fmt.Println(entry.Format())
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
