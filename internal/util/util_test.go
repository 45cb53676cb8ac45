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

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetResolvedPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	workDir, err := os.Getwd()
	require.NoError(t, err)
	t.Setenv(BaseDirEnv, "")

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"absolute", "/var/log/graphwalk.log", "/var/log/graphwalk.log"},
		{"home", "~/graphs/input.txt", filepath.Join(homeDir, "graphs/input.txt")},
		{"relative", "graphs/input.txt", filepath.Join(workDir, "graphs/input.txt")},
		{"dot relative", "./input.txt", filepath.Join(workDir, "input.txt")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := GetResolvedPath(tc.input)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestGetResolvedPath_BaseDirEnv(t *testing.T) {
	t.Setenv(BaseDirEnv, "/srv/graphwalk")

	got, err := GetResolvedPath("in/graph.txt")

	require.NoError(t, err)
	assert.Equal(t, "/srv/graphwalk/in/graph.txt", got)
}
