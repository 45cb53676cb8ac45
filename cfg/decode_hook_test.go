// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfg

import (
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeWithHook(t *testing.T, input map[string]any) *Config {
	t.Helper()
	var c Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: DecodeHook(),
		Result:     &c,
		TagName:    "yaml",
	})
	require.NoError(t, err)
	require.NoError(t, dec.Decode(input))
	return &c
}

func TestDecodeHook_DurationForms(t *testing.T) {
	testCases := []struct {
		name  string
		value any
		want  time.Duration
	}{
		{"string", "1m30s", 90 * time.Second},
		{"int seconds", 30, 30 * time.Second},
		{"uint seconds", uint(2), 2 * time.Second},
		{"float seconds", 1.5, 1500 * time.Millisecond},
		{"duration passes through", 250 * time.Millisecond, 250 * time.Millisecond},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := decodeWithHook(t, map[string]any{"timeout": tc.value})

			assert.Equal(t, tc.want, c.Timeout)
		})
	}
}

func TestDecodeHook_TextUnmarshalers(t *testing.T) {
	c := decodeWithHook(t, map[string]any{
		"logging": map[string]any{"severity": "debug"},
	})

	assert.Equal(t, DebugLogSeverity, c.Logging.Severity)
}

func TestDecodeHook_IntegerFieldsUnaffected(t *testing.T) {
	c := decodeWithHook(t, map[string]any{"workers": 8})

	assert.EqualValues(t, 8, c.Workers)
}
