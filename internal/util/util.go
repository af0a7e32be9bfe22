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
	"fmt"
	"os"
	"strings"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Config mirrors /etc/vortex/config.yaml. Every frontend command reads it to
// find the control daemon; vexecd additionally reads its own agent config.
type Config struct {
	ControlMachine    string `yaml:"ControlMachine"`
	VortexdListenPort string `yaml:"VortexdListenPort"`

	UseTls             bool   `yaml:"UseTls"`
	ServerCertFilePath string `yaml:"ServerCertFilePath"`
	ServerKeyFilePath  string `yaml:"ServerKeyFilePath"`
	CaCertFilePath     string `yaml:"CaCertFilePath"`

	DefaultPartition string `yaml:"DefaultPartition"`
	EnvRoot          string `yaml:"EnvRoot"`
	SpoolDir         string `yaml:"SpoolDir"`
}

var (
	DefaultConfigPath       string
	DefaultVexecdConfigPath string
	DefaultEnvRoot          string
	DefaultSpoolDir         string
	DefaultWrappedJobName   string
)

func init() {
	DefaultConfigPath = "/etc/vortex/config.yaml"
	DefaultVexecdConfigPath = "/etc/vortex/vexecd.yaml"
	DefaultEnvRoot = "/opt/vortex/envs"
	DefaultSpoolDir = "/var/spool/vortex"
	DefaultWrappedJobName = "wrapped_script"
}

func ParseConfig(configFilePath string) *Config {
	confFile, err := os.ReadFile(configFilePath)
	if err != nil {
		log.Errorf("Failed to read config file %s: %s.", configFilePath, err)
		os.Exit(ErrorCmdArg)
	}
	config := &Config{}
	if err = yaml.Unmarshal(confFile, config); err != nil {
		log.Errorf("Failed to parse config file %s: %s.", configFilePath, err)
		os.Exit(ErrorCmdArg)
	}

	if config.EnvRoot == "" {
		config.EnvRoot = DefaultEnvRoot
	}
	if config.SpoolDir == "" {
		config.SpoolDir = DefaultSpoolDir
	}

	return config
}

// VortexdAddr returns the base URL of the control daemon's REST endpoint.
func (c *Config) VortexdAddr() string {
	scheme := "http"
	if c.UseTls {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%s", scheme, c.ControlMachine, c.VortexdListenPort)
}

func InitLogger(level log.Level) {
	log.SetLevel(level)
	log.SetFormatter(&nested.Formatter{})
}

func SetBorderlessTable(table *tablewriter.Table) {
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetHeaderLine(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetNoWhiteSpace(true)
}

func FormatTable(tableOutputWidth []int, tableHeader []string,
	tableData [][]string) (formatTableHeader []string, formatTableData [][]string) {
	for i, h := range tableHeader {
		if tableOutputWidth[i] != -1 {
			padLength := tableOutputWidth[i] - len(h)
			if padLength >= 0 {
				tableHeader[i] = h + strings.Repeat(" ", padLength)
			} else {
				tableHeader[i] = h[:tableOutputWidth[i]]
			}
		}
	}
	for i, row := range tableData {
		for j, cell := range row {
			if tableOutputWidth[j] != -1 {
				padLength := tableOutputWidth[j] - len(cell)
				if padLength >= 0 {
					tableData[i][j] = cell + strings.Repeat(" ", padLength)
				} else {
					tableData[i][j] = cell[:tableOutputWidth[j]]
				}
			}
		}
	}
	return tableHeader, tableData
}

// TerminalWidth reports the width of the attached terminal, or 80 when
// stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func DetectNetworkProxy() {
	envHttpProxy, ok := os.LookupEnv("http_proxy")
	if ok && envHttpProxy != "" {
		log.Warningf("http_proxy is set: %s", envHttpProxy)
	}

	envHttpsProxy, ok := os.LookupEnv("https_proxy")
	if ok && envHttpsProxy != "" {
		log.Warningf("https_proxy is set: %s", envHttpsProxy)
	}
}
