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

// Package topology fuses per-device telemetry into canonical port records.
package topology

import "strings"

type ifaceFamily struct {
	short string
	long  string
}

// families maps the abbreviated interface prefixes used by the VLAN and MAC table
// endpoints to the full names used by the interfaces endpoint.
var families = []ifaceFamily{
	{short: "Gi", long: "GigabitEthernet"},
	{short: "Te", long: "TenGigabitEthernet"},
	{short: "Tw", long: "TwoGigabitEthernet"},
	{short: "Twe", long: "TwentyFiveGigE"},
	{short: "Fo", long: "FortyGigabitEthernet"},
	{short: "Hu", long: "HundredGigE"},
	{short: "Fa", long: "FastEthernet"},
	{short: "Eth", long: "Ethernet"},
	{short: "Ap", long: "AppGigabitEthernet"},
	{short: "Po", long: "Port-channel"},
	{short: "Vl", long: "Vlan"},
	{short: "Lo", long: "Loopback"},
	{short: "Tu", long: "Tunnel"},
}

// minPrefixLen is the shortest non-canonical abbreviation accepted ("Gig", "Ten").
const minPrefixLen = 3

// splitName separates the alphabetic family prefix from the numbering.
func splitName(name string) (prefix, rest string) {
	name = strings.TrimSpace(name)

	i := 0
	for i < len(name) {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' {
			i++
			continue
		}

		break
	}

	return name[:i], strings.TrimLeft(name[i:], " ")
}

func familyFor(prefix string) (ifaceFamily, bool) {
	for _, f := range families {
		if strings.EqualFold(prefix, f.long) {
			return f, true
		}
	}

	for _, f := range families {
		if strings.EqualFold(prefix, f.short) {
			return f, true
		}
	}

	if len(prefix) < minPrefixLen {
		return ifaceFamily{}, false
	}

	var (
		match ifaceFamily
		n     int
	)

	for _, f := range families {
		if len(f.long) >= len(prefix) && strings.EqualFold(f.long[:len(prefix)], prefix) {
			match = f
			n++
		}
	}

	return match, n == 1
}

// NormalizeInterfaceName returns the canonical long form of an interface name, for
// example "Gi1/0/1" and "gig 1/0/1" both become "GigabitEthernet1/0/1". Names of an
// unknown family are returned trimmed but otherwise unchanged. The function is
// idempotent.
func NormalizeInterfaceName(name string) string {
	prefix, rest := splitName(name)
	if prefix == "" || rest == "" || rest[0] < '0' || rest[0] > '9' {
		return strings.TrimSpace(name)
	}

	f, ok := familyFor(prefix)
	if !ok {
		return strings.TrimSpace(name)
	}

	return f.long + rest
}

// AbbreviateInterfaceName returns the short form, e.g. "Gi1/0/1".
func AbbreviateInterfaceName(name string) string {
	normalized := NormalizeInterfaceName(name)

	prefix, rest := splitName(normalized)
	for _, f := range families {
		if prefix == f.long {
			return f.short + rest
		}
	}

	return normalized
}
