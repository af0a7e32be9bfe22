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
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const MaxFilePathLength = 4096

// ParseMemStringAsByte accepts PBS-style sizes: 100GB, 512mb, 2g, 4096K,
// 1024B. A bare number defaults to MB.
func ParseMemStringAsByte(mem string) (uint64, error) {
	re := regexp.MustCompile(`^([0-9]+(\.?[0-9]*))([KkMmGgTt]?)[Bb]?$`)
	result := re.FindStringSubmatch(mem)
	if result == nil {
		return 0, fmt.Errorf("invalid memory format: %s", mem)
	}
	sz, err := ParseFloatWithPrecision(result[1], 10)
	if err != nil {
		return 0, err
	}
	switch result[3] {
	case "K", "k":
		return uint64(1024 * sz), nil
	case "M", "m":
		return uint64(1024 * 1024 * sz), nil
	case "G", "g":
		return uint64(1024 * 1024 * 1024 * sz), nil
	case "T", "t":
		return uint64(1024 * 1024 * 1024 * 1024 * sz), nil
	}
	if strings.HasSuffix(strings.ToUpper(mem), "B") {
		return uint64(sz), nil
	}
	// default unit is MB
	return uint64(1024 * 1024 * sz), nil
}

// ParseDurationStrToSeconds parses walltime in HH:MM:SS or D-HH:MM:SS form.
func ParseDurationStrToSeconds(duration string) (int64, error) {
	re := regexp.MustCompile(`^((\d+)-)?(\d+):(\d+):(\d+)$`)
	result := re.FindStringSubmatch(duration)
	if result == nil {
		return 0, fmt.Errorf("invalid walltime format: %s", duration)
	}
	var dd uint64
	if result[1] != "" {
		day, err := strconv.ParseUint(result[2], 10, 32)
		if err != nil {
			return 0, err
		}
		dd = day
	}
	hh, err := strconv.ParseUint(result[3], 10, 32)
	if err != nil {
		return 0, err
	}
	mm, err := strconv.ParseUint(result[4], 10, 32)
	if err != nil {
		return 0, err
	}
	if mm > 59 {
		return 0, fmt.Errorf("invalid walltime format: minutes out of range in %s", duration)
	}
	ss, err := strconv.ParseUint(result[5], 10, 32)
	if err != nil {
		return 0, err
	}
	if ss > 59 {
		return 0, fmt.Errorf("invalid walltime format: seconds out of range in %s", duration)
	}

	return int64(24*60*60*dd + 60*60*hh + 60*mm + ss), nil
}

func ParseTime(ts string) (time.Time, error) {
	// Try to parse the timezone at first
	layout := time.RFC3339
	parsed, err := time.Parse(layout, ts)
	if err == nil {
		return parsed, nil
	}

	// Fallback to the short layout, assuming local timezone
	layoutShort := time.RFC3339[:19]
	parsed, err = time.ParseInLocation(layoutShort, ts, time.Local)
	return parsed, err
}

func SecondTimeFormat(second int64) string {
	timeFormat := ""
	dd := second / 24 / 3600
	second %= 24 * 3600
	hh := second / 3600
	second %= 3600
	mm := second / 60
	ss := second % 60
	if dd > 0 {
		timeFormat = fmt.Sprintf("%d-%02d:%02d:%02d", dd, hh, mm, ss)
	} else {
		timeFormat = fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
	}
	return timeFormat
}

// FormatMemToMB renders a byte count the way users request it: whole
// gigabytes when the value divides evenly, megabytes otherwise.
func FormatMemToMB(bytes uint64) string {
	if bytes == 0 {
		return "0"
	}
	const (
		mb = 1024 * 1024
		gb = 1024 * mb
	)
	if bytes%gb == 0 {
		return fmt.Sprintf("%dG", bytes/gb)
	}
	return fmt.Sprintf("%dM", bytes/mb)
}

// Parses a string containing a float number with a given precision.
func ParseFloatWithPrecision(val string, decimalPlaces int) (float64, error) {
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}

	shift := math.Pow(10, float64(decimalPlaces))
	return math.Floor(num*shift) / shift, nil
}

func CheckFileLength(path string) error {
	if len(path) > MaxFilePathLength {
		return fmt.Errorf("file path exceeds %d characters", MaxFilePathLength)
	}
	return nil
}

func ConvertSliceToString[T any](slice []T, sep string) string {
	parts := make([]string, len(slice))
	for i, v := range slice {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, sep)
}

// ParseHostList expands bracket notation such as node[01-04,07] into the
// individual host names. Plain comma-separated names pass through.
func ParseHostList(hostStr string) ([]string, bool) {
	nameStr := strings.ReplaceAll(hostStr, " ", "")
	if nameStr == "" {
		return nil, true
	}
	nameStr += ","

	var nameMeta string
	var strList []string
	var charQueue string

	for _, c := range nameStr {
		if c == '[' {
			if charQueue == "" {
				charQueue = string(c)
			} else {
				return nil, false
			}
		} else if c == ']' {
			if charQueue == "" {
				return nil, false
			}
			nameMeta += charQueue
			nameMeta += string(c)
			charQueue = ""
		} else if c == ',' {
			if charQueue == "" {
				strList = append(strList, nameMeta)
				nameMeta = ""
			} else {
				charQueue += string(c)
			}
		} else {
			if charQueue == "" {
				nameMeta += string(c)
			} else {
				charQueue += string(c)
			}
		}
	}
	if charQueue != "" {
		return nil, false
	}

	bracketRegex := regexp.MustCompile(`.*\[(.*)\]`)
	var hostList []string

	for _, str := range strList {
		strS := strings.TrimSpace(str)
		if !bracketRegex.MatchString(strS) {
			hostList = append(hostList, strS)
		} else {
			nodes, ok := expandNodeRange(strS)
			if !ok {
				return nil, false
			}
			hostList = append(hostList, nodes...)
		}
	}
	return hostList, true
}

func expandNodeRange(nodeStr string) ([]string, bool) {
	numRegex := regexp.MustCompile(`^\d+$`)
	scopeRegex := regexp.MustCompile(`^(\d+)-(\d+)$`)

	open := strings.Index(nodeStr, "[")
	close := strings.Index(nodeStr, "]")
	if open == -1 || close == -1 || close < open {
		return nil, false
	}

	head := nodeStr[:open]
	tail := nodeStr[close+1:]
	var result []string

	for _, numStr := range strings.Split(nodeStr[open+1:close], ",") {
		if numRegex.MatchString(numStr) {
			result = append(result, head+numStr+tail)
		} else if m := scopeRegex.FindStringSubmatch(numStr); m != nil {
			start, err1 := strconv.Atoi(m[1])
			end, err2 := strconv.Atoi(m[2])
			if err1 != nil || err2 != nil || end < start {
				return nil, false
			}
			width := len(m[1])
			for j := start; j <= end; j++ {
				result = append(result, fmt.Sprintf("%s%0*d%s", head, width, j, tail))
			}
		} else {
			return nil, false
		}
	}
	return result, true
}
