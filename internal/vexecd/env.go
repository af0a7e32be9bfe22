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
	"os"
	"path/filepath"
	"strings"
)

// BuildJobEnv assembles the environment of the job process: the base
// environment, the variables propagated at submission, and the managed
// environment requested with --env.
//
// Activating a managed environment prepends its bin directory to PATH and
// sets VORTEX_ENV to the environment's name, the same contract "source
// activate <name>" gives users interactively.
func BuildJobEnv(base []string, propagated map[string]string, envRoot, envName string) ([]string, error) {
	merged := make(map[string]string, len(base)+len(propagated))
	order := make([]string, 0, len(base)+len(propagated))

	set := func(key, val string) {
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = val
	}

	for _, kv := range base {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			set(parts[0], parts[1])
		}
	}
	for key, val := range propagated {
		set(key, val)
	}

	if envName != "" {
		envDir := filepath.Join(envRoot, envName)
		info, err := os.Stat(envDir)
		if err != nil {
			return nil, fmt.Errorf("environment %q not found under %s: %w", envName, envRoot, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("environment %q is not a directory", envName)
		}

		binDir := filepath.Join(envDir, "bin")
		if path, ok := merged["PATH"]; ok && path != "" {
			set("PATH", binDir+string(os.PathListSeparator)+path)
		} else {
			set("PATH", binDir)
		}
		set("VORTEX_ENV", envName)
		set("VORTEX_ENV_ROOT", envDir)
	}

	result := make([]string, 0, len(order))
	for _, key := range order {
		result = append(result, key+"="+merged[key])
	}
	return result, nil
}
