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

package vqueue

import (
	"github.com/spf13/cobra"

	"VortexFrontEnd/internal/util"
)

var (
	FlagConfigFilePath string
	FlagNoHeader       bool
	FlagStartTime      bool
	FlagSelf           bool

	FlagFilterPartitions string
	FlagFilterJobIDs     string
	FlagFilterJobNames   string
	FlagFilterQos        string
	FlagFilterStates     string
	FlagFilterUsers      string
	FlagFilterAccounts   string
	FlagFilterNodes      string
	FlagIncludeCompleted bool

	FlagFormat string

	FlagIterate uint64

	FlagNumLimit uint32

	FlagJson bool

	RootCmd = &cobra.Command{
		Use:     "vqueue [flags]",
		Short:   "Display the job information and queue status",
		Version: util.Version(),
		Args:    cobra.ExactArgs(0),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.DetectNetworkProxy()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-lines") && FlagNumLimit == 0 {
				return util.NewVortexErr(util.ErrorCmdArg,
					"Output line number limit must be greater than 0.")
			}
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
	RootCmd.PersistentFlags().StringVarP(&FlagConfigFilePath, "config", "C", util.DefaultConfigPath,
		"Path to configuration file")
	RootCmd.Flags().StringVarP(&FlagFilterJobIDs, "job", "j", "",
		"Specify job ids to view (comma separated list), default is all")
	RootCmd.Flags().StringVarP(&FlagFilterJobNames, "name", "n", "",
		"Specify job names to view (comma separated list), default is all")
	RootCmd.Flags().StringVarP(&FlagFilterQos, "qos", "q", "",
		"Specify QoS of jobs to view (comma separated list), \ndefault is all QoS")
	RootCmd.Flags().StringVarP(&FlagFilterStates, "state", "t", "all",
		"Specify job states to view. Valid values are 'pending(p)', 'running(r)' and 'all'.\n"+
			"By default, 'all' is specified and all pending and running jobs will be reported")
	RootCmd.Flags().StringVarP(&FlagFilterUsers, "user", "u", "",
		"Specify users to view (comma separated list), default is all users")
	RootCmd.Flags().StringVarP(&FlagFilterAccounts, "account", "A", "",
		"Specify accounts to view (comma separated list), \ndefault is all accounts")
	RootCmd.Flags().StringVarP(&FlagFilterNodes, "nodelist", "w", "",
		"Specify the nodes to view, support comma separated list and ranges like \"node[01-04]\"")
	RootCmd.Flags().StringVarP(&FlagFilterPartitions, "partition", "p", "",
		"Specify partitions to view (comma separated list), \ndefault is all partitions")
	RootCmd.Flags().BoolVar(&FlagIncludeCompleted, "completed", false,
		"Include jobs that have already finished")
	RootCmd.Flags().Uint64VarP(&FlagIterate, "iterate", "i", 0,
		"Display at specified intervals (seconds), default is 0 (no iteration)")
	RootCmd.Flags().BoolVarP(&FlagStartTime, "start", "S", false,
		"Display start time of running jobs")
	RootCmd.Flags().BoolVarP(&FlagNoHeader, "noheader", "N", false,
		"Do not print header line in the output")
	RootCmd.Flags().BoolVar(&FlagSelf, "self", false,
		"Display only the jobs submitted by current user")
	RootCmd.Flags().StringVarP(&FlagFormat, "format", "o", "",
		`Specify the output format.
Fields are identified by a percent sign (%) followed by a character.
Use a dot (.) and a number between % and the format character to specify a minimum width for the field.

Supported format identifiers:
	%a - Account associated with the job.
	%e - Elapsed time from the start of the job.
	%j - ID of the job.
	%L - List of nodes the job is running on.
	%l - Time limit of the job.
	%N - Number of nodes requested by the job.
	%n - Name of the job.
	%P - Partition the job is running in.
	%q - Quality of Service level of the job.
	%t - Current state of the job.
	%u - User who submitted the job.

Example: --format "%.5j %.20n %t" would output the job's ID with a minimum width of 5,
         name with a minimum width of 20, and the state.
`)
	RootCmd.Flags().Uint32VarP(&FlagNumLimit, "max-lines", "m", 0,
		"Limit the number of lines in the output, default is 0 (no limit)")
	RootCmd.Flags().BoolVar(&FlagJson, "json", false,
		"Output in JSON format")
}
