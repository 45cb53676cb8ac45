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

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/googlecloudplatform/graphwalk/cfg"
	. "github.com/jacobsa/ogletest"
	"google.golang.org/api/option"
)

const validBucketName string = "will-be-present-in-fake-server"
const invalidBucketName string = "will-not-be-present-in-fake-server"
const objectName string = "graphs/tiny.in"
const objectContent string = "2 1\n5 7\n0 1\n"

func TestStorageHandle(t *testing.T) { RunTests(t) }

type StorageHandleTest struct {
	server *fakestorage.Server
}

func init() { RegisterTestSuite(&StorageHandleTest{}) }

func (t *StorageHandleTest) SetUp(ti *TestInfo) {
	var err error
	t.server, err = fakestorage.NewServerWithOptions(fakestorage.Options{
		InitialObjects: []fakestorage.Object{
			{
				ObjectAttrs: fakestorage.ObjectAttrs{
					BucketName: validBucketName,
					Name:       objectName,
				},
				Content: []byte(objectContent),
			},
		},
		Host:   "127.0.0.1",
		Scheme: "http",
	})
	AssertEq(nil, err)
}

func (t *StorageHandleTest) TearDown() {
	t.server.Stop()
}

func (t *StorageHandleTest) fakeHandle() StorageHandle {
	return &storageClient{client: t.server.Client()}
}

func (t *StorageHandleTest) TestNewObjectReaderWhenObjectExists() {
	r, err := t.fakeHandle().NewObjectReader(context.Background(), validBucketName, objectName)
	AssertEq(nil, err)
	defer r.Close()

	content, err := io.ReadAll(r)

	AssertEq(nil, err)
	ExpectEq(objectContent, string(content))
}

func (t *StorageHandleTest) TestNewObjectReaderWhenObjectDoesNotExist() {
	r, err := t.fakeHandle().NewObjectReader(context.Background(), validBucketName, "missing.in")

	ExpectEq(nil, r)
	ExpectTrue(errors.Is(err, ErrObjectNotFound))
}

func (t *StorageHandleTest) TestNewObjectReaderWhenBucketDoesNotExist() {
	r, err := t.fakeHandle().NewObjectReader(context.Background(), invalidBucketName, objectName)

	ExpectEq(nil, r)
	ExpectNe(nil, err)
}

// newEndpointServer starts a fake server reachable over a real listener.
// Object downloads are only routed for the public host, so it is pinned to
// the listener address.
func newEndpointServer() *fakestorage.Server {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	AssertEq(nil, err)
	port := l.Addr().(*net.TCPAddr).Port
	AssertEq(nil, l.Close())

	server, err := fakestorage.NewServerWithOptions(fakestorage.Options{
		InitialObjects: []fakestorage.Object{
			{
				ObjectAttrs: fakestorage.ObjectAttrs{
					BucketName: validBucketName,
					Name:       objectName,
				},
				Content: []byte(objectContent),
			},
		},
		Host:       "127.0.0.1",
		Port:       uint16(port),
		PublicHost: fmt.Sprintf("127.0.0.1:%d", port),
		Scheme:     "http",
	})
	AssertEq(nil, err)
	return server
}

func (t *StorageHandleTest) TestNewStorageHandleWithCustomEndpoint() {
	server := newEndpointServer()
	defer server.Stop()
	sc := StorageClientConfigFromConfig(&cfg.GcsConnectionConfig{
		AnonymousAccess: true,
		CustomEndpoint:  server.URL() + "/storage/v1/",
		MaxRetrySleep:   time.Second,
		RetryMultiplier: 2,
	})

	handle, err := NewStorageHandle(context.Background(), sc)
	AssertEq(nil, err)
	defer handle.Close()
	r, err := handle.NewObjectReader(context.Background(), validBucketName, objectName)
	AssertEq(nil, err)
	defer r.Close()
	content, err := io.ReadAll(r)

	AssertEq(nil, err)
	ExpectEq(objectContent, string(content))
}

func (t *StorageHandleTest) TestNewStorageHandleWithCustomEndpointMissingObject() {
	server := newEndpointServer()
	defer server.Stop()
	sc := StorageClientConfigFromConfig(&cfg.GcsConnectionConfig{
		AnonymousAccess: true,
		CustomEndpoint:  server.URL() + "/storage/v1/",
		MaxRetrySleep:   time.Second,
		RetryMultiplier: 2,
	})
	handle, err := NewStorageHandle(context.Background(), sc)
	AssertEq(nil, err)
	defer handle.Close()

	r, err := handle.NewObjectReader(context.Background(), validBucketName, "missing.in")

	ExpectEq(nil, r)
	ExpectTrue(errors.Is(err, ErrObjectNotFound))
}

func (t *StorageHandleTest) TestStorageClientConfigFromConfig() {
	sc := StorageClientConfigFromConfig(&cfg.GcsConnectionConfig{
		BillingProject:  "billing",
		MaxRetrySleep:   30 * time.Second,
		RetryMultiplier: 2,
	})

	ExpectEq(30*time.Second, sc.MaxRetryDuration)
	ExpectEq(2, sc.RetryMultiplier)
	ExpectEq("billing", sc.BillingProject)
	ExpectEq(0, len(sc.ClientOptions))
}

func (t *StorageHandleTest) TestNewStorageHandleWithBillingProject() {
	handle, err := NewStorageHandle(context.Background(), StorageClientConfig{
		MaxRetryDuration: 30 * time.Second,
		RetryMultiplier:  2,
		BillingProject:   "billing",
		ClientOptions:    []option.ClientOption{option.WithoutAuthentication()},
	})

	AssertEq(nil, err)
	ExpectEq("billing", handle.(*storageClient).billingProject)
	ExpectEq(nil, handle.Close())
}
