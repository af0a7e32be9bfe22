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
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"VortexFrontEnd/internal/api"
	"VortexFrontEnd/internal/util"
)

type BatchArg struct {
	name string
	val  string
}

// BuildJobSpec reads script directives and command-line flags to build the
// submission payload. Command-line values override script directives.
func BuildJobSpec(cmd *cobra.Command, args []string) (*api.JobSpec, error) {
	job := &api.JobSpec{
		NodeNum:     1,
		CpusPerNode: 1,
		Env:         make(map[string]string),
	}

	batchArgs := make([]BatchArg, 0)
	shScript := ""

	if FlagWrappedScript == "" {
		shLines := make([]string, 0)
		if err := ParseBatchScript(args[0], &batchArgs, &shLines); err != nil {
			return nil, err
		}
		job.Name = filepath.Base(args[0])
		shScript = strings.Join(shLines, "\n")
	} else {
		job.Name = util.DefaultWrappedJobName
		shScript = "#!/bin/sh\n" + FlagWrappedScript
		job.Interpreter = "/bin/sh"
	}
	job.Script = shScript

	structExtraFromScript := util.JobExtraAttrs{}
	structExtraFromCli := util.JobExtraAttrs{}
	var selectFromScript, selectFromCli string

	///*************set parameter values based on the script*******************************///
	for _, arg := range batchArgs {
		switch arg.name {
		case "--nodes", "-N":
			num, err := strconv.ParseUint(arg.val, 10, 32)
			if err != nil || num == 0 {
				return nil, argError(arg, "node count must be a positive integer")
			}
			job.NodeNum = uint32(num)
		case "--cpus-per-node", "-c":
			num, err := strconv.ParseUint(arg.val, 10, 32)
			if err != nil || num == 0 {
				return nil, argError(arg, "cpu count must be a positive integer")
			}
			job.CpusPerNode = uint32(num)
		case "--gpus-per-node":
			num, err := strconv.ParseUint(arg.val, 10, 32)
			if err != nil {
				return nil, argError(arg, "gpu count must be an integer")
			}
			job.GpusPerNode = uint32(num)
		case "--select", "-l":
			selectFromScript = arg.val
		case "--time", "-t":
			seconds, err := util.ParseDurationStrToSeconds(arg.val)
			if err != nil {
				return nil, argError(arg, err.Error())
			}
			job.TimeLimitSeconds = seconds
		case "--mem":
			memInByte, err := util.ParseMemStringAsByte(arg.val)
			if err != nil {
				return nil, argError(arg, err.Error())
			}
			job.MemPerNodeBytes = memInByte
		case "-p", "--partition":
			job.Partition = arg.val
		case "-J", "--job-name":
			job.Name = arg.val
		case "-A", "--account":
			job.Account = arg.val
		case "-q", "--qos":
			job.Qos = arg.val
		case "--chdir", "-D":
			job.Cwd = arg.val
		case "--env":
			job.EnvName = arg.val
		case "--get-user-env":
			for _, kv := range os.Environ() {
				parts := strings.SplitN(kv, "=", 2)
				if len(parts) == 2 {
					job.Env[parts[0]] = parts[1]
				}
			}
		case "--export":
			job.Env["VORTEX_EXPORT_ENV"] = arg.val
		case "-o", "--output":
			job.OutputPath = arg.val
		case "-e", "--error":
			job.ErrorPath = arg.val
		case "--merge-stderr":
			job.MergeStderr = true
		case "--interpreter":
			job.Interpreter = arg.val
		case "--open-mode":
			appendMode, err := parseOpenMode(arg.val)
			if err != nil {
				return nil, argError(arg, err.Error())
			}
			job.OpenModeAppend = appendMode
		case "--extra-attr":
			structExtraFromScript.ExtraAttr = arg.val
		case "--mail-type":
			structExtraFromScript.MailType = arg.val
		case "--mail-user":
			structExtraFromScript.MailUser = arg.val
		case "--comment":
			structExtraFromScript.Comment = arg.val
		case "--hold", "-H":
			job.Hold = true
		case "--begin", "-b":
			beginTime, err := util.ParseTime(arg.val)
			if err != nil {
				return nil, argError(arg, err.Error())
			}
			job.BeginTime = &beginTime
		case "-r", "--reservation":
			job.Reservation = arg.val
		default:
			return nil, util.WrapVortexErr(util.ErrorScriptParsing,
				"invalid argument: unrecognized '%s' in script", arg.name)
		}
	}

	// ************* set parameter values based on the command line *********************
	// If the command line argument is set, it replaces the argument read from
	// the script, so the command line has a higher priority.
	if cmd.Flags().Changed("nodes") {
		job.NodeNum = FlagNodes
	}
	if cmd.Flags().Changed("cpus-per-node") {
		job.CpusPerNode = FlagCpusPerNode
	}
	if cmd.Flags().Changed("gpus-per-node") {
		job.GpusPerNode = FlagGpusPerNode
	}
	if FlagSelect != "" {
		selectFromCli = FlagSelect
	}
	if FlagTime != "" {
		seconds, err := util.ParseDurationStrToSeconds(FlagTime)
		if err != nil {
			return nil, util.WrapVortexErr(util.ErrorCmdArg, "invalid --time value '%s': %s", FlagTime, err)
		}
		job.TimeLimitSeconds = seconds
	}
	if FlagMem != "" {
		memInByte, err := util.ParseMemStringAsByte(FlagMem)
		if err != nil {
			return nil, util.WrapVortexErr(util.ErrorCmdArg, "invalid --mem value '%s': %s", FlagMem, err)
		}
		job.MemPerNodeBytes = memInByte
	}
	if FlagPartition != "" {
		job.Partition = FlagPartition
	}
	if FlagJob != "" {
		job.Name = FlagJob
	}
	if FlagAccount != "" {
		job.Account = FlagAccount
	}
	if FlagQos != "" {
		job.Qos = FlagQos
	}
	if FlagCwd != "" {
		job.Cwd = FlagCwd
	}
	if FlagEnvName != "" {
		job.EnvName = FlagEnvName
	}
	if FlagGetUserEnv {
		for _, kv := range os.Environ() {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				job.Env[parts[0]] = parts[1]
			}
		}
	}
	if FlagExport != "" {
		job.Env["VORTEX_EXPORT_ENV"] = FlagExport
	}
	if FlagStdoutPath != "" {
		job.OutputPath = FlagStdoutPath
	}
	if FlagStderrPath != "" {
		job.ErrorPath = FlagStderrPath
	}
	if FlagMergeStderr {
		job.MergeStderr = true
	}
	if FlagInterpreter != "" {
		job.Interpreter = FlagInterpreter
	}
	if FlagOpenMode != "" {
		appendMode, err := parseOpenMode(FlagOpenMode)
		if err != nil {
			return nil, util.WrapVortexErr(util.ErrorCmdArg, "invalid --open-mode value '%s': %s", FlagOpenMode, err)
		}
		job.OpenModeAppend = appendMode
	}
	if FlagExtraAttr != "" {
		structExtraFromCli.ExtraAttr = FlagExtraAttr
	}
	if FlagMailType != "" {
		structExtraFromCli.MailType = FlagMailType
	}
	if FlagMailUser != "" {
		structExtraFromCli.MailUser = FlagMailUser
	}
	if FlagComment != "" {
		structExtraFromCli.Comment = FlagComment
	}
	if FlagHold {
		job.Hold = true
	}
	if FlagBeginTime != "" {
		beginTime, err := util.ParseTime(FlagBeginTime)
		if err != nil {
			return nil, util.WrapVortexErr(util.ErrorCmdArg, "invalid --begin value '%s': %s", FlagBeginTime, err)
		}
		job.BeginTime = &beginTime
	}
	if FlagReservation != "" {
		job.Reservation = FlagReservation
	}

	// A select statement is the authoritative resource shape when present.
	selectSpec := selectFromScript
	if selectFromCli != "" {
		selectSpec = selectFromCli
	}
	if selectSpec != "" {
		stmt, err := util.ParseSelect(selectSpec)
		if err != nil {
			return nil, util.WrapVortexErr(util.ErrorCmdArg, "invalid select statement: %s", err)
		}
		job.NodeNum = stmt.TotalNodes()
		job.CpusPerNode = stmt.MaxCpusPerNode()
		job.GpusPerNode = stmt.MaxGpusPerNode()
		job.MemPerNodeBytes = stmt.MaxMemPerNodeBytes()
	}

	var extraFromScript, extraFromCli string
	if err := structExtraFromScript.Marshal(&extraFromScript); err != nil {
		return nil, util.WrapVortexErr(util.ErrorScriptParsing,
			"failed to marshal extra attributes from script: %s", err)
	}
	if err := structExtraFromCli.Marshal(&extraFromCli); err != nil {
		return nil, util.WrapVortexErr(util.ErrorCmdArg,
			"failed to marshal extra attributes from CLI: %s", err)
	}
	job.ExtraAttr = util.AmendJobExtraAttrs(extraFromScript, extraFromCli)

	if err := CheckJobSpec(job); err != nil {
		return nil, err
	}

	return job, nil
}

var jobNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.][a-zA-Z0-9_.-]*$`)

// CheckJobSpec validates everything that does not need the cluster shape.
func CheckJobSpec(job *api.JobSpec) error {
	if job.Name == "" || len(job.Name) > 64 || !jobNameRegex.MatchString(job.Name) {
		return util.WrapVortexErr(util.ErrorCmdArg, "invalid job name '%s'", job.Name)
	}
	if err := util.CheckFileLength(job.OutputPath); err != nil {
		return util.WrapVortexErr(util.ErrorCmdArg, "invalid output file path: %s", err)
	}
	if err := util.CheckFileLength(job.ErrorPath); err != nil {
		return util.WrapVortexErr(util.ErrorCmdArg, "invalid error file path: %s", err)
	}
	if job.MergeStderr && job.ErrorPath != "" {
		return util.NewVortexErr(util.ErrorCmdArg, "--error conflicts with merged stderr (-j oe)")
	}
	if job.TimeLimitSeconds < 0 {
		return util.NewVortexErr(util.ErrorCmdArg, "walltime must not be negative")
	}
	return nil
}

// CheckResourcesAgainstCluster rejects a request no node shape of the target
// partition can satisfy. The daemon remains the authority; this only saves a
// round trip that is guaranteed to fail.
func CheckResourcesAgainstCluster(job *api.JobSpec, cluster *api.ClusterInfoReply) error {
	var partition *api.PartitionInfo
	for _, p := range cluster.Partitions {
		if p.Name == job.Partition || (job.Partition == "" && p.IsDefault) {
			partition = p
			break
		}
	}
	if partition == nil {
		if job.Partition == "" {
			return util.NewVortexErr(util.ErrorCmdArg,
				"no partition specified and the cluster has no default partition")
		}
		return util.WrapVortexErr(util.ErrorCmdArg, "partition '%s' does not exist", job.Partition)
	}

	if job.NodeNum > partition.TotalNodes {
		return util.WrapVortexErr(util.ErrorCmdArg,
			"requested %d nodes but partition '%s' has %d", job.NodeNum, partition.Name, partition.TotalNodes)
	}

	if len(partition.Shapes) == 0 {
		return nil
	}
	for _, shape := range partition.Shapes {
		if job.CpusPerNode <= shape.Cpus && job.GpusPerNode <= shape.Gpus &&
			job.MemPerNodeBytes <= shape.MemoryBytes {
			return nil
		}
	}
	return util.WrapVortexErr(util.ErrorCmdArg,
		"no node in partition '%s' satisfies %d cpus, %d gpus, %s per node",
		partition.Name, job.CpusPerNode, job.GpusPerNode,
		fmt.Sprintf("%dB", job.MemPerNodeBytes))
}

// SendRequest validates against the cluster shape and submits the job.
func SendRequest(client *api.Client, job *api.JobSpec) error {
	cluster, err := client.ClusterInfo(context.Background())
	if err != nil {
		return err
	}
	if !cluster.Ok {
		return util.WrapVortexErr(util.ErrorBackend, "failed to query cluster info: %s", cluster.Reason)
	}
	if err := CheckResourcesAgainstCluster(job, cluster); err != nil {
		return err
	}

	reply, err := client.SubmitJob(context.Background(), job)
	if err != nil {
		return err
	}

	if FlagJson {
		fmt.Println(api.FormatReply(reply))
		if reply.Ok {
			return nil
		}
		return &util.VortexError{Code: util.ErrorBackend}
	}
	if reply.Ok {
		fmt.Printf("Job id allocated: %d.\n", reply.JobId)
		return nil
	}
	return util.WrapVortexErr(util.ErrorBackend, "Job allocation failed: %s.", reply.Reason)
}

// ParseBatchScript splits the job script into directive arguments and the
// shell payload.
func ParseBatchScript(path string, args *[]BatchArg, sh *[]string) error {
	file, err := os.Open(path)
	if err != nil {
		return util.NewVortexErr(util.ErrorCmdArg, err.Error())
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			log.Errorf("Failed to close %s.\n", file.Name())
		}
	}(file)

	scanner := bufio.NewScanner(file)
	num := 0

	reV := regexp.MustCompile(`^#VBATCH`)
	reP := regexp.MustCompile(`^#PBS`)

	for scanner.Scan() {
		num++

		// Shebang
		if num == 1 && strings.HasPrefix(scanner.Text(), "#!") {
			*args = append(*args, BatchArg{
				name: "--interpreter",
				val:  strings.TrimPrefix(scanner.Text(), "#!"),
			})
			*sh = append(*sh, scanner.Text())
			continue
		}

		var processor LineProcessor
		if reV.MatchString(scanner.Text()) {
			processor = &vLineProcessor{}
		} else if reP.MatchString(scanner.Text()) {
			processor = &pbsLineProcessor{}
		} else {
			processor = &defaultProcessor{}
		}
		err := processor.Process(scanner.Text(), sh, args)
		if err != nil {
			return util.WrapVortexErr(util.ErrorScriptParsing, "Parsing error at line %d: %s", num, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return util.WrapVortexErr(util.ErrorScriptParsing, "Failed to read the script file: %s", err)
	}

	return nil
}

func parseOpenMode(mode string) (appendMode bool, err error) {
	switch mode {
	case util.OpenModeAppend:
		return true, nil
	case util.OpenModeTruncate:
		return false, nil
	}
	return false, fmt.Errorf("open mode must be either '%s' or '%s'",
		util.OpenModeAppend, util.OpenModeTruncate)
}

func argError(arg BatchArg, reason string) error {
	return util.WrapVortexErr(util.ErrorScriptParsing,
		"invalid argument: %s value '%s' in script: %s", arg.name, arg.val, reason)
}
