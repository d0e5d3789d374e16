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

package topology

import (
	"testing"
	"time"

	"github.com/ceressa/Netinfo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	require.NoError(t, p.Validate())

	assert.Equal(t, 60*time.Second, p.AttemptTimeout(0))
	assert.Equal(t, 90*time.Second, p.AttemptTimeout(1))
	assert.Equal(t, 120*time.Second, p.AttemptTimeout(2))

	tests := []struct {
		name    string
		mutate  func(*RetryPolicy)
		wantErr error
	}{
		{name: "no attempts", mutate: func(p *RetryPolicy) { p.Attempts = 0 }, wantErr: errNoAttempts},
		{name: "no timeout", mutate: func(p *RetryPolicy) { p.Timeout = 0 }, wantErr: errNoTimeout},
		{name: "negative delay", mutate: func(p *RetryPolicy) { p.Delays = []time.Duration{-1} }, wantErr: errNegativeDelay},
		{name: "negative step", mutate: func(p *RetryPolicy) { p.TimeoutStep = -1 }, wantErr: errNegativeDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultRetryPolicy()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), tt.wantErr)
		})
	}
}

func TestScheduleBackOff(t *testing.T) {
	b := &scheduleBackOff{delays: []time.Duration{10 * time.Second, 20 * time.Second}}

	assert.Equal(t, 10*time.Second, b.NextBackOff())
	assert.Equal(t, 20*time.Second, b.NextBackOff())
	assert.Equal(t, 20*time.Second, b.NextBackOff())

	b.Reset()
	assert.Equal(t, 10*time.Second, b.NextBackOff())

	assert.Equal(t, time.Duration(0), (&scheduleBackOff{}).NextBackOff())
}

func TestStateMachine(t *testing.T) {
	run := &deviceRun{state: StatePending}

	require.ErrorIs(t, run.advance(StateFused), errInvalidTransition)
	require.NoError(t, run.advance(StateFetching))
	require.NoError(t, run.advance(StateUnreachable))
	assert.True(t, run.state.Terminal())
	assert.ErrorIs(t, run.advance(StateFetching), errInvalidTransition)

	assert.Equal(t, "PENDING", StatePending.String())
	assert.Equal(t, "FUSED", StateFused.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestSummarize(t *testing.T) {
	ist := time.FixedZone("TRT", 3*60*60)

	now := time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

	hosts := map[string]models.HostTopology{
		"TrIST1csw01": {Status: models.HostStatusOK, Ports: []models.Port{
			{InputRateMbps: 1.23, OutputRateMbps: 2},
			{InputRateMbps: 0.12, OutputRateMbps: 0.5},
		}},
		"TrIST1csw02": {Status: models.HostStatusOK, Ports: []models.Port{{InputRateMbps: 3}}},
		"TrANK1csw01": {Status: models.HostStatusUnreachable, Ports: []models.Port{}},
	}

	snap := Summarize(hosts, now, ist)

	assert.Equal(t, "14.03.2025 12:26", snap.LastWholeDataUpdated)
	assert.Len(t, snap.Data, 3)
	assert.Equal(t, models.HostStatusUnreachable, snap.Data["TrANK1csw01"].Status)
	assert.NotContains(t, snap.SwitchTrafficSummary, "TrANK1csw01")

	assert.InDelta(t, 1.35, snap.SwitchTrafficSummary["TrIST1csw01"].InputMbps, 1e-9)
	assert.InDelta(t, 2.5, snap.SwitchTrafficSummary["TrIST1csw01"].OutputMbps, 1e-9)
	assert.InDelta(t, 4.35, snap.CumulatedInputMbps, 1e-9)
	assert.InDelta(t, 2.5, snap.CumulatedOutputMbps, 1e-9)
}
