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
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/ceressa/Netinfo/pkg/models"
	"gopkg.in/yaml.v3"
)

//go:embed location_rules.yaml
var defaultLocationRules []byte

var (
	errNoRules        = errors.New("no location rules defined")
	errRuleName       = errors.New("location rule has no name")
	errRuleNoCapture  = errors.New("location rule pattern has no capture group")
	errDuplicateRule  = errors.New("duplicate location rule name")
	errInvalidPattern = errors.New("invalid location rule pattern")
)

// LocationRule is one named hostname pattern.
type LocationRule struct {
	Name      string `yaml:"name" json:"name"`
	Pattern   string `yaml:"pattern" json:"pattern"`
	Uppercase bool   `yaml:"uppercase" json:"uppercase"`
}

type locationRuleSet struct {
	Rules []LocationRule `yaml:"rules" json:"rules"`
}

type compiledRule struct {
	LocationRule
	re *regexp.Regexp
}

// Locator extracts site codes from hostnames using an ordered rule list.
type Locator struct {
	rules  []compiledRule
	logger logger.Logger
}

// NewLocator compiles rules in order.
func NewLocator(rules []LocationRule, log logger.Logger) (*Locator, error) {
	if len(rules) == 0 {
		return nil, errNoRules
	}

	seen := make(map[string]struct{}, len(rules))
	compiled := make([]compiledRule, 0, len(rules))

	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: %q", errRuleName, r.Pattern)
		}

		if _, ok := seen[r.Name]; ok {
			return nil, fmt.Errorf("%w: %s", errDuplicateRule, r.Name)
		}

		seen[r.Name] = struct{}{}

		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", errInvalidPattern, r.Name, err)
		}

		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("%w: %s", errRuleNoCapture, r.Name)
		}

		compiled = append(compiled, compiledRule{LocationRule: r, re: re})
	}

	return &Locator{rules: compiled, logger: log}, nil
}

// DefaultLocationRules returns the built-in rule list.
func DefaultLocationRules() ([]LocationRule, error) {
	return parseLocationRules(defaultLocationRules)
}

// LoadLocationRules reads a rule file. An empty path selects the built-in list.
func LoadLocationRules(path string) ([]LocationRule, error) {
	if path == "" {
		return DefaultLocationRules()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read location rules: %w", err)
	}

	return parseLocationRules(data)
}

// yaml.v3 also accepts JSON documents.
func parseLocationRules(data []byte) ([]LocationRule, error) {
	var set locationRuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse location rules: %w", err)
	}

	if len(set.Rules) == 0 {
		return nil, errNoRules
	}

	return set.Rules, nil
}

// ExtractLocationCode returns the site code of hostname, or "Unknown".
func (l *Locator) ExtractLocationCode(hostname string) string {
	code, _ := l.Match(hostname)

	return code
}

// Match is ExtractLocationCode that also reports which rule matched.
func (l *Locator) Match(hostname string) (code, rule string) {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		l.logger.Warn().Msg("Empty hostname, location unknown")

		return models.UnknownValue, ""
	}

	for _, r := range l.rules {
		m := r.re.FindStringSubmatch(hostname)
		if m == nil || m[1] == "" {
			continue
		}

		code = m[1]
		if r.Uppercase {
			code = strings.ToUpper(code)
		}

		l.logger.Debug().
			Str("hostname", hostname).
			Str("rule", r.Name).
			Str("location", code).
			Msg("Location rule matched")

		return code, r.Name
	}

	l.logger.Debug().Str("hostname", hostname).Msg("No location rule matched")

	return models.UnknownValue, ""
}
