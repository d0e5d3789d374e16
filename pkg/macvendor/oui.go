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

package macvendor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errUnknownOUI = errors.New("oui not registered")

// Table is an in-memory OUI registry.
type Table map[string]string

// Vendor implements Source.
func (t Table) Vendor(oui string) (string, error) {
	v, ok := t[oui]
	if !ok {
		return "", errUnknownOUI
	}

	return v, nil
}

// LoadOUIFile parses an IEEE oui.txt style file.
func LoadOUIFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open oui file: %w", err)
	}
	defer f.Close()

	return ParseOUI(f)
}

// ParseOUI reads "(hex)" and "(base 16)" lines of the IEEE registry as well as simple
// "OUI<TAB or comma>Vendor" lines. Everything else is ignored.
func ParseOUI(r io.Reader) (Table, error) {
	table := make(Table)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		oui, vendor, ok := parseOUILine(scanner.Text())
		if !ok {
			continue
		}

		if _, seen := table[oui]; !seen {
			table[oui] = vendor
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read oui file: %w", err)
	}

	return table, nil
}

func parseOUILine(line string) (oui, vendor string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	var prefix, rest string

	switch {
	case strings.Contains(line, "(hex)"):
		prefix, rest, _ = strings.Cut(line, "(hex)")
	case strings.Contains(line, "(base 16)"):
		prefix, rest, _ = strings.Cut(line, "(base 16)")
	case strings.ContainsAny(line, "\t,"):
		i := strings.IndexAny(line, "\t,")
		prefix, rest = line[:i], line[i+1:]
	default:
		return "", "", false
	}

	prefix = strings.ToUpper(strings.NewReplacer("-", "", ":", "", ".", "").Replace(strings.TrimSpace(prefix)))
	vendor = strings.TrimSpace(rest)

	if len(prefix) != 6 || vendor == "" {
		return "", "", false
	}

	for _, c := range prefix {
		if !isHex(c) {
			return "", "", false
		}
	}

	return prefix, vendor, true
}
