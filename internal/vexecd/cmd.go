/**
 * Copyright (c) 2025 The Vortex Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package vexecd

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"VortexFrontEnd/internal/api"
	"VortexFrontEnd/internal/util"
)

var (
	FlagConfigFilePath string
	FlagPayloadPath    string
	FlagJson           bool

	RootCmd = &cobra.Command{
		Use:     "vexecd",
		Short:   "Vortex per-node execution agent",
		Version: util.Version(),
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Execute one dispatched job to completion",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunJob()
		},
	}
)

func ParseCmdArgs() {
	util.RunEWrapperForLeafCommand(RootCmd)
	util.RunAndHandleExit(RootCmd)
}

// RunJob is the agent's whole job lifecycle: load config and payload, run
// the process, report the result, and exit with the job's own code.
func RunJob() error {
	cfg, err := LoadConfig(FlagConfigFilePath)
	if err != nil {
		return util.WrapVortexErr(util.ErrorCmdArg, "Failed to load config: %s", err)
	}
	setupLogger(cfg)

	payload, err := LoadPayload(FlagPayloadPath)
	if err != nil {
		return util.WrapVortexErr(util.ErrorCmdArg, "Invalid payload: %s", err)
	}

	recorder, err := NewUsageRecorder(cfg)
	if err != nil {
		return util.WrapVortexErr(util.ErrorBackend, "Failed to set up usage recorder: %s", err)
	}
	defer recorder.Close()

	runner := NewRunner(cfg, recorder)
	result, err := runner.Run(payload)
	if err != nil {
		return util.WrapVortexErr(util.ErrorGeneric, "Failed to run job #%d: %s", payload.JobId, err)
	}

	if FlagJson {
		fmt.Println(api.FormatReply(result))
	}

	// The agent's exit status is the job's exit status.
	if result.ExitCode != 0 {
		return &util.VortexError{Code: result.ExitCode}
	}
	return nil
}

func setupLogger(cfg *Config) {
	level, err := log.ParseLevel(cfg.Execd.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Execd.LogPath != "" {
		// Keep stderr logging alive alongside the rotated file.
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Execd.LogPath,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}))
	}
}

func init() {
	RootCmd.SetVersionTemplate(util.VersionTemplate())
	RootCmd.PersistentFlags().StringVarP(&FlagConfigFilePath, "config", "C",
		util.DefaultVexecdConfigPath, "Path to configuration file")
	runCmd.Flags().StringVar(&FlagPayloadPath, "payload", "",
		"Path to the dispatched job payload (JSON)")
	runCmd.Flags().BoolVar(&FlagJson, "json", false, "Output the job result in JSON format")
	runCmd.MarkFlagRequired("payload")
	RootCmd.AddCommand(runCmd)
}
