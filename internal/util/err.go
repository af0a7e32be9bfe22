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

package util

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type VortexCmdError = int

const (
	ErrorSuccess       VortexCmdError = 0
	ErrorGeneric       VortexCmdError = 1
	ErrorCmdArg        VortexCmdError = 2
	ErrorNetwork       VortexCmdError = 3
	ErrorBackend       VortexCmdError = 4
	ErrorScriptParsing VortexCmdError = 5
)

// VortexError carries the process exit code alongside the message so that
// RunAndHandleExit can map a command failure to the right shell status.
type VortexError struct {
	Code    VortexCmdError
	Message string
}

func (e *VortexError) Error() string {
	return e.Message
}

func NewVortexErr(code VortexCmdError, message string) *VortexError {
	return &VortexError{Code: code, Message: message}
}

func WrapVortexErr(code VortexCmdError, format string, args ...any) *VortexError {
	return &VortexError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// RunEWrapperForLeafCommand silences cobra's own error/usage printing on
// every leaf so that RunAndHandleExit is the single failure surface.
func RunEWrapperForLeafCommand(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		RunEWrapperForLeafCommand(sub)
	}
	if !cmd.HasSubCommands() {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
	}
}

func RunAndHandleExit(cmd *cobra.Command) {
	err := cmd.Execute()
	if err == nil {
		os.Exit(ErrorSuccess)
	}

	var vErr *VortexError
	if errors.As(err, &vErr) {
		if vErr.Message != "" {
			log.Errorln(vErr.Message)
		}
		os.Exit(vErr.Code)
	}

	log.Errorln(err.Error())
	os.Exit(ErrorGeneric)
}
