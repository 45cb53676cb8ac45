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

package storageutil

import (
	"errors"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// ShouldRetry extends storage.ShouldRetry to also retry HTTP 401 responses.
// GCS occasionally rejects a token the client still considers valid, and a
// retry with a refreshed token succeeds.
func ShouldRetry(err error) (b bool) {
	b = storage.ShouldRetry(err)
	if b {
		return
	}

	var typed *googleapi.Error
	if errors.As(err, &typed) && typed.Code == http.StatusUnauthorized {
		b = true
	}
	return
}
