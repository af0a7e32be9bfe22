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

package vcancel

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"VortexFrontEnd/internal/util"
)

var (
	FlagJobName        string
	FlagPartition      string
	FlagState          string
	FlagUserName       string
	FlagConfigFilePath string
	FlagJson           bool

	jobIdListRegex = regexp.MustCompile(`^([1-9][0-9]*)(,[1-9][0-9]*)*$`)

	RootCmd = &cobra.Command{
		Use:     "vcancel [flags] [job_id[,job_id...]]",
		Short:   "Cancel pending or running jobs",
		Version: util.Version(),
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return err
			}

			if len(args) == 0 &&
				FlagJobName == "" &&
				FlagPartition == "" &&
				FlagState == "" &&
				FlagUserName == "" {
				return fmt.Errorf("at least one condition should be given")
			}

			if len(args) > 0 && !jobIdListRegex.MatchString(args[0]) {
				return fmt.Errorf("job id list must follow the format " +
					"<job_id> or '<job_id>,<job_id>,<job_id>...'")
			}

			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.DetectNetworkProxy()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return CancelJobs(args)
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
	RootCmd.Flags().StringVarP(&FlagJobName, "name", "n", "",
		"Cancel jobs only with the job name")
	RootCmd.Flags().StringVarP(&FlagPartition, "partition", "p", "",
		"Cancel jobs only in the partition")
	RootCmd.Flags().StringVarP(&FlagState, "state", "t", "",
		"Cancel jobs of the state. Valid values are 'pending(p)' and 'running(r)', case-insensitive")
	RootCmd.Flags().StringVarP(&FlagUserName, "user", "u", "",
		"Cancel jobs submitted by the user")
	RootCmd.Flags().BoolVar(&FlagJson, "json", false, "Output in JSON format")
}
