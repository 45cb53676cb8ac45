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

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/googlecloudplatform/graphwalk/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type walkTest struct {
	suite.Suite
	config *cfg.Config
	out    bytes.Buffer
}

func TestWalkSuite(t *testing.T) {
	suite.Run(t, new(walkTest))
}

func (t *walkTest) SetupTest() {
	c, _, err := parseConfig(t.T(), "--workers=3", "unused.in")
	t.Require().NoError(err)
	t.config = c
	t.out.Reset()
}

func (t *walkTest) TestSumFromNodeZero() {
	err := walk(context.Background(), t.config, "testdata/cycle.in", &t.out)

	t.Require().NoError(err)
	t.Equal("10", t.out.String())
}

func (t *walkTest) TestSumFromIsolatedNode() {
	t.config.StartNode = 4

	err := walk(context.Background(), t.config, "testdata/cycle.in", &t.out)

	t.Require().NoError(err)
	t.Equal("100", t.out.String())
}

func (t *walkTest) TestStartNodeOutOfRange() {
	t.config.StartNode = 5

	err := walk(context.Background(), t.config, "testdata/cycle.in", &t.out)

	t.ErrorContains(err, "start node 5 out of range")
	t.Empty(t.out.String())
}

func (t *walkTest) TestMissingInput() {
	err := walk(context.Background(), t.config, "testdata/missing.in", &t.out)

	t.ErrorIs(err, os.ErrNotExist)
	t.Empty(t.out.String())
}

func (t *walkTest) TestMalformedInput() {
	path := filepath.Join(t.T().TempDir(), "bad.in")
	t.Require().NoError(os.WriteFile(path, []byte("3 1\n1 2 3\n0 7\n"), 0644))

	err := walk(context.Background(), t.config, path, &t.out)

	t.ErrorContains(err, "token 7")
}

func (t *walkTest) TestWritesLogFile() {
	logPath := filepath.Join(t.T().TempDir(), "graphwalk.log")
	t.config.Logging.FilePath = cfg.ResolvedPath(logPath)

	err := walk(context.Background(), t.config, "testdata/cycle.in", &t.out)

	t.Require().NoError(err)
	content, err := os.ReadFile(logPath)
	t.Require().NoError(err)
	t.Contains(string(content), "Traversal finished")
	t.Contains(string(content), "sum=10")
}

func (t *walkTest) TestStdoutTracingDoesNotTouchOutput() {
	t.config.Monitoring.ExperimentalTracingMode = cfg.StdoutTracingMode

	err := walk(context.Background(), t.config, "testdata/cycle.in", &t.out)

	t.Require().NoError(err)
	t.Equal("10", t.out.String())
}

func TestWalkReadsGCSObject(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	server, err := fakestorage.NewServerWithOptions(fakestorage.Options{
		InitialObjects: []fakestorage.Object{
			{
				ObjectAttrs: fakestorage.ObjectAttrs{BucketName: "graphs", Name: "dir/star.in"},
				Content:     []byte("4 3\n5 1 1 1\n0 1\n0 2\n0 3\n"),
			},
		},
		Host:       "127.0.0.1",
		Port:       uint16(port),
		PublicHost: fmt.Sprintf("127.0.0.1:%d", port),
		Scheme:     "http",
	})
	require.NoError(t, err)
	defer server.Stop()
	c, _, err := parseConfig(t,
		"--anonymous-access",
		"--custom-endpoint="+server.URL()+"/storage/v1/",
		"--start-node=2",
		"gs://graphs/dir/star.in")
	require.NoError(t, err)
	var out bytes.Buffer

	err = walk(context.Background(), c, "gs://graphs/dir/star.in", &out)

	require.NoError(t, err)
	assert.Equal(t, "8", out.String())
}
