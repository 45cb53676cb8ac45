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
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectOpener struct {
	objects map[string]string
}

func (f *fakeObjectOpener) NewObjectReader(_ context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	content, ok := f.objects[bucketName+"/"+objectName]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func TestLoad_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.in")
	require.NoError(t, os.WriteFile(path, []byte("2 1\n10 20\n0 1\n"), 0644))

	g, err := Load(context.Background(), path, nil)

	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, int32(20), g.Nodes[1].Info)
}

func TestLoad_MissingLocalFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.in"), nil)

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_GCSObject(t *testing.T) {
	objects := &fakeObjectOpener{objects: map[string]string{"graphs/dir/tiny.in": "1 0 42"}}

	g, err := Load(context.Background(), "gs://graphs/dir/tiny.in", objects)

	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, int32(42), g.Nodes[0].Info)
}

func TestLoad_GCSObjectMissing(t *testing.T) {
	_, err := Load(context.Background(), "gs://graphs/none.in", &fakeObjectOpener{})

	assert.ErrorContains(t, err, "object not found")
}

func TestOpen_GCSWithoutClient(t *testing.T) {
	_, err := Open(context.Background(), "gs://graphs/tiny.in", nil)

	assert.ErrorContains(t, err, "no GCS client")
}

func TestOpen_InvalidGCSURI(t *testing.T) {
	_, err := Open(context.Background(), "gs://graphs", &fakeObjectOpener{})

	assert.Error(t, err)
}

func TestOpen_Stdin(t *testing.T) {
	r, err := Open(context.Background(), StdinURI, nil)

	require.NoError(t, err)
	assert.NoError(t, r.Close())
}

func TestLoad_ParseErrorNamesSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.in")
	require.NoError(t, os.WriteFile(path, []byte("2 1 1"), 0644))

	_, err := Load(context.Background(), path, nil)

	assert.ErrorIs(t, err, ErrTruncated)
	assert.ErrorContains(t, err, "parsing "+path)
}
