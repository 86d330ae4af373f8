// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/telekom/icmptrace/internal/logger"
	"github.com/telekom/icmptrace/pkg/watch"
)

// NewCmdWatch creates the watch command
func NewCmdWatch(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] [host...]",
		Short: "Trace the hosts periodically and expose the results",
		Long: "Traces the hosts every interval and serves the last result on /v1/result,\n" +
			"the prometheus metrics on /metrics and the openapi document on /openapi.\n" +
			"The hosts can also be read from a targets file that is reloaded periodically.",
		SilenceUsage: true,
		RunE:         runWatch(version),
	}

	NewFlag("watch.interval", "interval").Duration().Bind(cmd, time.Minute, "pause between two rounds of traces")
	NewFlag("watch.address", "listen").String().Bind(cmd, ":8080", "listen address of the api")
	NewFlag("watch.file.path", "targets-file").String().Bind(cmd, "", "yaml file with the targets to trace")
	NewFlag("watch.file.interval", "targets-reload").Duration().Bind(cmd, 0, "reload interval of the targets file, 0 reads it once")

	return cmd
}

func runWatch(version string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := logger.NewContextWithLogger(ctx)
		defer cancel()

		cfg, err := loadConfig(ctx, args, true)
		if err != nil {
			return err
		}

		return watch.New(cfg, version, newClient()).Run(ctx)
	}
}
