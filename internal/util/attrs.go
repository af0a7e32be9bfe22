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

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JobExtraAttrs collects the optional attributes that ride in a job's
// extra-attribute JSON document.
type JobExtraAttrs struct {
	ExtraAttr string
	MailType  string
	MailUser  string
	Comment   string
}

// Marshal merges the fields into a single JSON document. ExtraAttr, when
// set, must itself be valid JSON and forms the base document.
func (a *JobExtraAttrs) Marshal(output *string) error {
	result := a.ExtraAttr
	if result != "" && !gjson.Valid(result) {
		return fmt.Errorf("extra attributes are not valid JSON: %s", a.ExtraAttr)
	}

	var err error
	if a.Comment != "" {
		if result, err = sjson.Set(result, "comment", a.Comment); err != nil {
			return err
		}
	}
	if a.MailType != "" {
		if result, err = sjson.Set(result, "mail.type", a.MailType); err != nil {
			return err
		}
	}
	if a.MailUser != "" {
		if result, err = sjson.Set(result, "mail.user", a.MailUser); err != nil {
			return err
		}
	}

	*output = result
	return nil
}

// AmendJobExtraAttrs overlays the CLI document on the script document.
// Keys present in both take the CLI value.
func AmendJobExtraAttrs(fromScript, fromCli string) string {
	if fromScript == "" {
		return fromCli
	}
	if fromCli == "" {
		return fromScript
	}

	merged := fromScript
	gjson.Parse(fromCli).ForEach(func(key, value gjson.Result) bool {
		merged, _ = sjson.Set(merged, key.String(), value.Value())
		return true
	})
	return merged
}

// ExtraAttrValue pulls a single key out of an extra-attribute document.
func ExtraAttrValue(extraAttr, key string) string {
	if !gjson.Valid(extraAttr) {
		return ""
	}
	return gjson.Get(extraAttr, key).String()
}
