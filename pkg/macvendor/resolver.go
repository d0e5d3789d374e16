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

// Package macvendor resolves MAC addresses to hardware vendor names.
package macvendor

import (
	"errors"
	"strings"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 4096

var errInvalidMAC = errors.New("invalid mac address")

// Source looks up the vendor registered for a six hex digit OUI.
type Source interface {
	Vendor(oui string) (string, error)
}

// Resolver is a best-effort MAC to vendor lookup. It never fails: anything it cannot
// resolve comes back as "Unknown". Results, misses included, are cached per OUI.
type Resolver struct {
	source Source
	cache  *lru.Cache[string, string]
	logger logger.Logger
}

// NewResolver fronts source with an LRU cache of cacheSize entries.
func NewResolver(source Source, cacheSize int, log logger.Logger) (*Resolver, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		source: source,
		cache:  cache,
		logger: log,
	}, nil
}

// Lookup returns the vendor for mac, or "Unknown".
func (r *Resolver) Lookup(mac string) string {
	oui, err := OUI(mac)
	if err != nil {
		r.logger.Debug().Str("mac", mac).Msg("Unparsable MAC address")

		return models.UnknownValue
	}

	if vendor, ok := r.cache.Get(oui); ok {
		return vendor
	}

	vendor := models.UnknownValue

	if r.source != nil {
		v, err := r.source.Vendor(oui)
		switch {
		case err != nil:
			r.logger.Debug().Err(err).Str("oui", oui).Msg("Vendor lookup failed")
		case v != "":
			vendor = v
		}
	}

	r.cache.Add(oui, vendor)

	return vendor
}

// OUI extracts the uppercase vendor prefix from a MAC in any of the usual notations
// (aa:bb:cc:dd:ee:ff, aa-bb-cc-dd-ee-ff, aabb.ccdd.eeff).
func OUI(mac string) (string, error) {
	var b strings.Builder

	for _, c := range mac {
		switch {
		case c == ':' || c == '-' || c == '.':
			continue
		case isHex(c):
			b.WriteRune(c)
		default:
			return "", errInvalidMAC
		}
	}

	hex := strings.ToUpper(b.String())
	if len(hex) != 12 {
		return "", errInvalidMAC
	}

	return hex[:6], nil
}

func isHex(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
