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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ouiSample = `OUI/MA-L                                                    Organization
company_id                                                  Organization
                                                            Address

00-00-0C   (hex)		Cisco Systems, Inc
00000C     (base 16)		Cisco Systems, Inc
				170 WEST TASMAN DRIVE
				SAN JOSE CA 95134-1706
				US

3C-22-FB   (hex)		Apple, Inc.
3C22FB     (base 16)		Apple, Inc.

# local additions
AABBCC,Lab Vendor
`

var errRegistryOffline = errors.New("registry offline")

type countingSource struct {
	calls int
	table Table
}

func (c *countingSource) Vendor(oui string) (string, error) {
	c.calls++
	return c.table.Vendor(oui)
}

type failingSource struct{}

func (failingSource) Vendor(string) (string, error) { return "", errRegistryOffline }

func TestParseOUI(t *testing.T) {
	table, err := ParseOUI(strings.NewReader(ouiSample))
	require.NoError(t, err)

	assert.Equal(t, Table{
		"00000C": "Cisco Systems, Inc",
		"3C22FB": "Apple, Inc.",
		"AABBCC": "Lab Vendor",
	}, table)
}

func TestLoadOUIFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oui.txt")
	require.NoError(t, os.WriteFile(path, []byte(ouiSample), 0o600))

	table, err := LoadOUIFile(path)
	require.NoError(t, err)
	assert.Len(t, table, 3)

	_, err = LoadOUIFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestOUI(t *testing.T) {
	tests := []struct {
		mac     string
		want    string
		wantErr bool
	}{
		{mac: "00:00:0c:12:34:56", want: "00000C"},
		{mac: "3c-22-fb-00-00-01", want: "3C22FB"},
		{mac: "3c22.fb00.0001", want: "3C22FB"},
		{mac: "3c22fb000001", want: "3C22FB"},
		{mac: "3c22.fb00", wantErr: true},
		{mac: "zz:zz:zz:zz:zz:zz", wantErr: true},
		{mac: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mac, func(t *testing.T) {
			got, err := OUI(tt.mac)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidMAC)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolverLookup(t *testing.T) {
	table, err := ParseOUI(strings.NewReader(ouiSample))
	require.NoError(t, err)

	src := &countingSource{table: table}

	r, err := NewResolver(src, 16, logger.NewTestLogger())
	require.NoError(t, err)

	assert.Equal(t, "Cisco Systems, Inc", r.Lookup("00:00:0c:aa:bb:cc"))
	assert.Equal(t, "Cisco Systems, Inc", r.Lookup("0000.0c11.2233"))
	assert.Equal(t, 1, src.calls)

	assert.Equal(t, models.UnknownValue, r.Lookup("12:34:56:78:9a:bc"))
	assert.Equal(t, models.UnknownValue, r.Lookup("12:34:56:00:00:00"))
	assert.Equal(t, 2, src.calls)

	assert.Equal(t, models.UnknownValue, r.Lookup("not-a-mac"))
	assert.Equal(t, 2, src.calls)
}

func TestResolverDegrades(t *testing.T) {
	t.Run("source errors", func(t *testing.T) {
		r, err := NewResolver(failingSource{}, 0, logger.NewTestLogger())
		require.NoError(t, err)
		assert.Equal(t, models.UnknownValue, r.Lookup("00:00:0c:aa:bb:cc"))
	})

	t.Run("no source", func(t *testing.T) {
		r, err := NewResolver(nil, 0, logger.NewTestLogger())
		require.NoError(t, err)
		assert.Equal(t, models.UnknownValue, r.Lookup("00:00:0c:aa:bb:cc"))
	})
}
