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

package vinfo

import (
	"github.com/spf13/cobra"

	"VortexFrontEnd/internal/util"
)

var (
	FlagConfigFilePath       string
	FlagFilterParts          string
	FlagFilterStates         string
	FlagFilterDownOnly       bool
	FlagFilterRespondingOnly bool
	FlagIterate              uint64
	FlagNoHeader             bool
	FlagTree                 bool
	FlagJson                 bool

	RootCmd = &cobra.Command{
		Use:     "vinfo [flags]",
		Short:   "Display the state of partitions and nodes",
		Version: util.Version(),
		Args:    cobra.ExactArgs(0),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.DetectNetworkProxy()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if FlagIterate != 0 {
				return loopedQuery(FlagIterate)
			}
			return Query()
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
	RootCmd.Flags().StringVarP(&FlagFilterParts, "partition", "p", "",
		"Display the partitions only (comma separated list), default is all partitions")
	RootCmd.Flags().StringVarP(&FlagFilterStates, "state", "t", "",
		"Display partitions with the states only (comma separated list)")
	RootCmd.Flags().BoolVarP(&FlagFilterDownOnly, "dead", "d", false,
		"Display non-responding partitions only")
	RootCmd.Flags().BoolVarP(&FlagFilterRespondingOnly, "responding", "r", false,
		"Display responding partitions only")
	RootCmd.MarkFlagsMutuallyExclusive("state", "responding", "dead")
	RootCmd.Flags().Uint64VarP(&FlagIterate, "iterate", "i", 0,
		"Display at specified intervals (seconds), default is 0 (no iteration)")
	RootCmd.Flags().BoolVarP(&FlagNoHeader, "noheader", "N", false,
		"Do not print header line in the output")
	RootCmd.Flags().BoolVar(&FlagTree, "tree", false,
		"Display the cluster as a tree of partitions and node groups")
	RootCmd.Flags().BoolVar(&FlagJson, "json", false, "Output in JSON format")
}
