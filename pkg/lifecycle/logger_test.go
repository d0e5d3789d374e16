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

package lifecycle

import (
	"bytes"
	"testing"

	"github.com/ceressa/Netinfo/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComponentLogger(t *testing.T) {
	l, err := CreateComponentLogger("reconcile", &logger.Config{Level: "warn", Output: "stderr"})
	require.NoError(t, err)

	impl, ok := l.(*LoggerImpl)
	require.True(t, ok)
	assert.Equal(t, zerolog.WarnLevel, impl.logger.GetLevel())

	l.SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, impl.logger.GetLevel())
}

func TestCreateComponentLoggerBadLevel(t *testing.T) {
	_, err := CreateComponentLogger("reconcile", &logger.Config{Level: "chatty"})
	require.Error(t, err)
}

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer

	impl := &LoggerImpl{logger: zerolog.New(&buf)}
	child := impl.WithComponent("identity")
	child.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"identity"`)

	buf.Reset()
	fields := impl.WithFields(map[string]interface{}{"cycle_id": "abc"})
	fields.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"cycle_id":"abc"`)
}
