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

package vbatch

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"VortexFrontEnd/internal/api"
	"VortexFrontEnd/internal/util"
)

var (
	FlagNodes       uint32
	FlagCpusPerNode uint32
	FlagGpusPerNode uint32
	FlagSelect      string
	FlagTime        string
	FlagMem         string
	FlagPartition   string
	FlagJob         string
	FlagAccount     string
	FlagQos         string
	FlagCwd         string
	FlagEnvName     string
	FlagGetUserEnv  bool
	FlagExport      string
	FlagStdoutPath  string
	FlagStderrPath  string
	FlagMergeStderr bool
	FlagOpenMode    string

	FlagInterpreter string

	FlagWrappedScript string

	FlagExtraAttr string
	FlagMailType  string
	FlagMailUser  string
	FlagComment   string

	FlagConfigFilePath string
	FlagJson           bool

	FlagReservation string

	FlagHold      bool
	FlagBeginTime string

	RootCmd = &cobra.Command{
		Use:     "vbatch [flags] file",
		Short:   "Submit batch job",
		Version: util.Version(),
		Args: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("wrap") {
				if len(args) != 0 {
					return errors.New("--wrap is exclusive with file name argument")
				}
			} else if len(args) != 1 {
				return errors.New("invalid number of arguments")
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.DetectNetworkProxy()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := BuildJobSpec(cmd, args)
			if err != nil {
				return err
			}

			job.Uid = uint32(os.Getuid())
			job.Gid = uint32(os.Getgid())
			job.CmdLine = strings.Join(os.Args, " ")
			if job.Cwd == "" {
				job.Cwd, _ = os.Getwd()
			}

			config := util.ParseConfig(FlagConfigFilePath)
			client := api.NewClient(config)
			return SendRequest(client, job)
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
	RootCmd.Flags().Uint32VarP(&FlagNodes, "nodes", "N", 1, "Number of nodes on which to run")
	RootCmd.Flags().Uint32VarP(&FlagCpusPerNode, "cpus-per-node", "c", 1, "Number of cpus required on each node")
	RootCmd.Flags().Uint32Var(&FlagGpusPerNode, "gpus-per-node", 0, "Number of gpus required on each node")
	RootCmd.Flags().StringVarP(&FlagSelect, "select", "l", "", "Resource selection, format: \"N:ncpus=C:ngpus=G:mem=M\", chunks joined with '+'")
	RootCmd.Flags().StringVarP(&FlagTime, "time", "t", "", "Time limit, format: \"day-hours:minutes:seconds\" 5-0:0:1 for 5 days, 1 second or \"hours:minutes:seconds\" 10:1:2 for 10 hours, 1 minute, 2 seconds")
	RootCmd.Flags().StringVar(&FlagMem, "mem", "", "Maximum amount of real memory per node, support GB(G, g), MB(M, m), KB(K, k) and Bytes(B), default unit is MB")
	RootCmd.Flags().StringVarP(&FlagPartition, "partition", "p", "", "Partition requested")
	RootCmd.Flags().StringVarP(&FlagJob, "job-name", "J", "", "Name of job")
	RootCmd.Flags().StringVarP(&FlagAccount, "account", "A", "", "Account used for the job")
	RootCmd.Flags().StringVarP(&FlagCwd, "chdir", "D", "", "Working directory of the job")
	RootCmd.Flags().StringVarP(&FlagQos, "qos", "q", "", "QoS used for the job")
	RootCmd.Flags().StringVar(&FlagEnvName, "env", "", "Name of the managed environment to activate before the job runs")
	RootCmd.Flags().BoolVar(&FlagGetUserEnv, "get-user-env", false, "Load login environment variables of the user")
	RootCmd.Flags().StringVar(&FlagExport, "export", "", "Propagate environment variables")
	RootCmd.Flags().StringVarP(&FlagStdoutPath, "output", "o", "", "Redirection path of standard output of the script")
	RootCmd.Flags().StringVarP(&FlagStderrPath, "error", "e", "", "Redirection path of standard error of the script")
	RootCmd.Flags().BoolVarP(&FlagMergeStderr, "merge-stderr", "j", false, "Merge standard error into the standard output stream")
	RootCmd.Flags().StringVar(&FlagWrappedScript, "wrap", "", "Wrap command string in a sh script and submit")
	RootCmd.Flags().StringVar(&FlagInterpreter, "interpreter", "", "Interpreter used to run the script")
	RootCmd.Flags().StringVar(&FlagExtraAttr, "extra-attr", "", "Extra attributes of the job (in JSON format)")
	RootCmd.Flags().StringVar(&FlagMailType, "mail-type", "", "Notify user by mail when certain events occur, supported values: NONE, BEGIN, END, FAIL, TIMELIMIT, ALL (default is NONE)")
	RootCmd.Flags().StringVar(&FlagMailUser, "mail-user", "", "Mail address of the notification receiver")
	RootCmd.Flags().StringVar(&FlagComment, "comment", "", "Comment of the job")
	RootCmd.Flags().BoolVar(&FlagJson, "json", false, "Output in JSON format")
	RootCmd.Flags().StringVar(&FlagOpenMode, "open-mode", "", "Set the mode for opening output and error files, supported values: append, truncate (default is truncate)")
	RootCmd.Flags().StringVarP(&FlagReservation, "reservation", "r", "", "Use reserved resources")
	RootCmd.Flags().BoolVarP(&FlagHold, "hold", "H", false, "Hold the job until it is released")
	RootCmd.Flags().StringVarP(&FlagBeginTime, "begin", "b", "", "Defer job until specified time.")
}
