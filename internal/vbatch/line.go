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
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

type LineProcessor interface {
	Process(line string, sh *[]string, args *[]BatchArg) error
}

// For native Vortex args: "#VBATCH --flag value"
type vLineProcessor struct {
}

func (v *vLineProcessor) Process(line string, sh *[]string, args *[]BatchArg) error {
	split := strings.Fields(line)
	if len(split) == 3 {
		*args = append(*args, BatchArg{name: split[1], val: split[2]})
	} else if len(split) == 2 {
		parts := strings.SplitN(split[1], "=", 2)
		if len(parts) == 2 {
			*args = append(*args, BatchArg{name: parts[0], val: parts[1]})
		} else {
			*args = append(*args, BatchArg{name: split[1]})
		}
	} else {
		return errors.New("fields out of bound")
	}
	return nil
}

// For PBS args: "#PBS -l select=1:ncpus=8:ngpus=1:mem=100GB"
type pbsLineProcessor struct {
	mapping map[string]string
}

func (p *pbsLineProcessor) init() {
	p.mapping = map[string]string{
		"-N": "--job-name",
		"-P": "--account",
		"-A": "--account",
		"-q": "--partition",
		"-o": "--output",
		"-e": "--error",
		"-M": "--mail-user",
		"-m": "--mail-type",
	}
}

func (p *pbsLineProcessor) Process(line string, sh *[]string, args *[]BatchArg) error {
	if p.mapping == nil {
		p.init()
	}
	split := strings.Fields(line)
	if len(split) < 2 {
		return errors.New("fields out of bound")
	}

	opt := split[1]
	switch opt {
	case "-l":
		if len(split) != 3 {
			return fmt.Errorf("option -l requires a resource list")
		}
		return p.processResourceList(split[2], args)
	case "-j":
		// "-j oe" merges stderr into stdout; other join specs pass through
		if len(split) == 3 && (split[2] == "oe" || split[2] == "eo") {
			*args = append(*args, BatchArg{name: "--merge-stderr"})
		} else {
			log.Warnf("PBS option -j %v is not supported", strings.Join(split[2:], " "))
		}
		return nil
	case "-V":
		*args = append(*args, BatchArg{name: "--get-user-env"})
		return nil
	case "-h":
		*args = append(*args, BatchArg{name: "--hold"})
		return nil
	case "-a":
		if len(split) != 3 {
			return fmt.Errorf("option -a requires a date_time value")
		}
		*args = append(*args, BatchArg{name: "--begin", val: split[2]})
		return nil
	}

	if name, ok := p.mapping[opt]; ok {
		if len(split) != 3 {
			return fmt.Errorf("option %s requires a value", opt)
		}
		*args = append(*args, BatchArg{name: name, val: split[2]})
	} else {
		log.Warnf("PBS option %v is not supported", opt)
	}
	return nil
}

// processResourceList handles "-l name=value[,name=value...]".
// A select statement may itself contain colons, but never commas, so a
// plain comma split is safe.
func (p *pbsLineProcessor) processResourceList(list string, args *[]BatchArg) error {
	for _, item := range strings.Split(list, ",") {
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 || parts[1] == "" {
			return fmt.Errorf("malformed resource request %q", item)
		}
		switch parts[0] {
		case "select":
			*args = append(*args, BatchArg{name: "--select", val: parts[1]})
		case "walltime":
			*args = append(*args, BatchArg{name: "--time", val: parts[1]})
		case "nodes":
			*args = append(*args, BatchArg{name: "--nodes", val: parts[1]})
		case "mem":
			*args = append(*args, BatchArg{name: "--mem", val: parts[1]})
		case "ncpus":
			*args = append(*args, BatchArg{name: "--cpus-per-node", val: parts[1]})
		case "ngpus":
			*args = append(*args, BatchArg{name: "--gpus-per-node", val: parts[1]})
		default:
			log.Warnf("PBS resource %v is not supported", parts[0])
		}
	}
	return nil
}

// for sh commands
type defaultProcessor struct {
}

func (d *defaultProcessor) Process(line string, sh *[]string, args *[]BatchArg) error {
	*sh = append(*sh, line)
	return nil
}
