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

package vlog

import (
	"github.com/spf13/cobra"

	"VortexFrontEnd/internal/util"
)

var (
	FlagConfigFilePath string
	FlagStderr         bool
	FlagNoFollow       bool
	FlagTailLines      int

	RootCmd = &cobra.Command{
		Use:     "vlog [flags] job_id",
		Short:   "Show and follow the output of a job",
		Version: util.Version(),
		Args:    cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.DetectNetworkProxy()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ShowLog(args[0])
		},
	}
)

func ParseCmdArgs() {
	util.RunEWrapperForLeafCommand(RootCmd)
	util.RunAndHandleExit(RootCmd)
}

func init() {
	RootCmd.SetVersionTemplate(util.VersionTemplate())
	RootCmd.PersistentFlags().StringVarP(&FlagConfigFilePath, "config", "C",
		util.DefaultConfigPath, "Path to configuration file")
	RootCmd.Flags().BoolVar(&FlagStderr, "stderr", false,
		"Show the error stream instead of the output stream")
	RootCmd.Flags().BoolVar(&FlagNoFollow, "no-follow", false,
		"Print the current content and exit instead of following")
	RootCmd.Flags().IntVarP(&FlagTailLines, "tail", "n", 0,
		"Number of trailing lines to show before following, default is 0 (all)")
}
