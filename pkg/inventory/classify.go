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

package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ceressa/Netinfo/pkg/models"
)

var (
	errOverlappingFamilies = errors.New("model family listed as both switch and router")
	errEmptyFamily         = errors.New("empty model family")
)

// DefaultSwitchModels and DefaultRouterModels are the families recognised out of the box.
//
//nolint:gochecknoglobals // defaults copied into configs
var (
	DefaultSwitchModels = []string{"C9300", "WS-C2960X", "WS-C3850", "C9500", "C9300L"}
	DefaultRouterModels = []string{"ISR4351", "ISR4451", "8300"}
)

// Classifier derives a device type from a model string by substring match.
type Classifier struct {
	switches []string
	routers  []string
}

// NewClassifier validates that the two family lists are disjoint.
func NewClassifier(switches, routers []string) (*Classifier, error) {
	sw := make(map[string]struct{}, len(switches))

	for _, s := range switches {
		if strings.TrimSpace(s) == "" {
			return nil, errEmptyFamily
		}

		sw[s] = struct{}{}
	}

	for _, r := range routers {
		if strings.TrimSpace(r) == "" {
			return nil, errEmptyFamily
		}

		if _, ok := sw[r]; ok {
			return nil, fmt.Errorf("%w: %s", errOverlappingFamilies, r)
		}
	}

	return &Classifier{
		switches: append([]string(nil), switches...),
		routers:  append([]string(nil), routers...),
	}, nil
}

// Classify returns Switch, Router or Unknown. Switch families are checked first.
func (c *Classifier) Classify(model string) models.DeviceType {
	if model == "" {
		return models.DeviceTypeUnknown
	}

	for _, s := range c.switches {
		if strings.Contains(model, s) {
			return models.DeviceTypeSwitch
		}
	}

	for _, r := range c.routers {
		if strings.Contains(model, r) {
			return models.DeviceTypeRouter
		}
	}

	return models.DeviceTypeUnknown
}
