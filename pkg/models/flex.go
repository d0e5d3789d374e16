/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexString decodes a JSON string or number into a string. The feeds return device
// identifiers as numbers on some endpoints and as strings on others.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*f = FlexString(strings.TrimSpace(s))

		return nil
	}

	var n json.Number

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("%w: %s", errInvalidFlexString, string(b))
	}

	s := n.String()
	// 12.0 style floats from spreadsheet-backed feeds
	if i, err := strconv.ParseFloat(s, 64); err == nil && i == float64(int64(i)) {
		s = strconv.FormatInt(int64(i), 10)
	}

	*f = FlexString(s)

	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexBool decodes true/false, 0/1 and their quoted forms. It encodes as 0 or 1, which is
// what the downstream notifier compares against.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	switch strings.Trim(strings.ToLower(string(bytes.TrimSpace(b))), `"`) {
	case "1", "true":
		*f = true
	case "0", "false", "null", "":
		*f = false
	default:
		return fmt.Errorf("%w: %s", errInvalidFlexBool, string(b))
	}

	return nil
}

func (f FlexBool) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}

	return []byte("0"), nil
}
