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

package graph

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/googlecloudplatform/graphwalk/internal/storage/storageutil"
	"github.com/googlecloudplatform/graphwalk/internal/util"
)

// StdinURI selects standard input as the graph source.
const StdinURI = "-"

// ObjectOpener opens GCS objects. storage.StorageHandle implements it.
type ObjectOpener interface {
	NewObjectReader(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)
}

// Open returns a reader for the graph named by uri: a gs://bucket/object URI,
// StdinURI, or a local path. objects may be nil when uri is not a GCS URI.
func Open(ctx context.Context, uri string, objects ObjectOpener) (io.ReadCloser, error) {
	switch {
	case storageutil.IsGCSURI(uri):
		bucket, object, err := storageutil.ParseGCSURI(uri)
		if err != nil {
			return nil, err
		}
		if objects == nil {
			return nil, fmt.Errorf("cannot open %s: no GCS client", uri)
		}
		return objects.NewObjectReader(ctx, bucket, object)

	case uri == StdinURI:
		return io.NopCloser(os.Stdin), nil

	default:
		path, err := util.GetResolvedPath(uri)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", uri, err)
		}
		return os.Open(path)
	}
}

// Load opens and parses the graph named by uri.
func Load(ctx context.Context, uri string, objects ObjectOpener) (g *Graph, err error) {
	r, err := Open(ctx, uri, objects)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", uri, closeErr)
		}
	}()

	g, err = Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", uri, err)
	}
	return g, nil
}
