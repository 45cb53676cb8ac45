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
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BaseDirEnv, when set, is the directory relative paths are resolved
// against instead of the working directory.
const BaseDirEnv = "GRAPHWALK_BASE_DIR"

// GetResolvedPath returns the absolute form of filePath:
// 1. An empty or absolute path is returned unchanged.
// 2. A path starting with ~/ is resolved against the home directory.
// 3. Any other relative path is resolved against $GRAPHWALK_BASE_DIR if set,
// and the working directory otherwise.
func GetResolvedPath(filePath string) (string, error) {
	if filePath == "" || filepath.IsAbs(filePath) {
		return filePath, nil
	}

	if strings.HasPrefix(filePath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("fetch home dir: %w", err)
		}
		return filepath.Join(homeDir, filePath[2:]), nil
	}

	baseDir := strings.TrimSpace(os.Getenv(BaseDirEnv))
	if baseDir == "" {
		return filepath.Abs(filePath)
	}
	return filepath.Join(baseDir, filePath), nil
}
