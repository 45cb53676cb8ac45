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
	"fmt"
	"strings"
)

const gcsScheme = "gs://"

// IsGCSURI reports whether uri names a GCS object.
func IsGCSURI(uri string) bool {
	return strings.HasPrefix(uri, gcsScheme)
}

// ParseGCSURI splits a gs://bucket/object URI. Both parts must be non-empty.
// The object name may contain further slashes.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !IsGCSURI(uri) {
		err = fmt.Errorf("%q is not a gs:// URI", uri)
		return
	}

	bucket, object, found := strings.Cut(strings.TrimPrefix(uri, gcsScheme), "/")
	if !found || bucket == "" || object == "" {
		err = fmt.Errorf("%q must have the form gs://bucket/object", uri)
		return "", "", err
	}
	return
}
