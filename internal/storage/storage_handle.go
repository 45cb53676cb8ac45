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
	"time"

	"cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2"
	"github.com/googlecloudplatform/graphwalk/cfg"
	"github.com/googlecloudplatform/graphwalk/internal/logger"
	"github.com/googlecloudplatform/graphwalk/internal/storage/storageutil"
	"google.golang.org/api/option"
)

// ErrObjectNotFound is wrapped by NewObjectReader when the object or its
// bucket does not exist.
var ErrObjectNotFound = errors.New("object not found")

type StorageHandle interface {
	// NewObjectReader opens the latest generation of an object for reading.
	// The caller closes the reader.
	NewObjectReader(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)

	Close() error
}

type storageClient struct {
	client *storage.Client

	// In case of non-empty billingProject, this project is set as user-project
	// for every bucket. Calls with user-project are billed to that project
	// rather than to the bucket's owning project, as Requester Pays buckets
	// require.
	billingProject string
}

type StorageClientConfig struct {
	MaxRetryDuration time.Duration
	RetryMultiplier  float64
	BillingProject   string
	ClientOptions    []option.ClientOption
}

// StorageClientConfigFromConfig builds the client settings for the
// gcs-connection section of c.
func StorageClientConfigFromConfig(c *cfg.GcsConnectionConfig) StorageClientConfig {
	sc := StorageClientConfig{
		MaxRetryDuration: c.MaxRetrySleep,
		RetryMultiplier:  c.RetryMultiplier,
		BillingProject:   c.BillingProject,
	}
	if c.CustomEndpoint != "" {
		sc.ClientOptions = append(sc.ClientOptions, option.WithEndpoint(c.CustomEndpoint))
	}
	if c.AnonymousAccess {
		sc.ClientOptions = append(sc.ClientOptions, option.WithoutAuthentication())
	}
	return sc
}

// NewStorageHandle returns the handle of Go storage client configured by
// clientConfig.
func NewStorageHandle(ctx context.Context, clientConfig StorageClientConfig) (sh StorageHandle, err error) {
	var sc *storage.Client
	sc, err = storage.NewClient(ctx, clientConfig.ClientOptions...)
	if err != nil {
		err = fmt.Errorf("go storage client creation failed: %w", err)
		return
	}

	// Reads are idempotent, but RetryAlways also routes them through
	// ShouldRetry so that 401s are retried.
	sc.SetRetry(
		storage.WithBackoff(gax.Backoff{
			Max:        clientConfig.MaxRetryDuration,
			Multiplier: clientConfig.RetryMultiplier,
		}),
		storage.WithPolicy(storage.RetryAlways),
		storage.WithErrorFunc(storageutil.ShouldRetry))

	sh = &storageClient{client: sc, billingProject: clientConfig.BillingProject}
	return
}

func (sh *storageClient) bucket(bucketName string) *storage.BucketHandle {
	bh := sh.client.Bucket(bucketName)
	if sh.billingProject != "" {
		bh = bh.UserProject(sh.billingProject)
	}
	return bh
}

func (sh *storageClient) NewObjectReader(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	r, err := sh.bucket(bucketName).Object(objectName).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return nil, fmt.Errorf("gs://%s/%s: %w", bucketName, objectName, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("NewReader(gs://%s/%s): %w", bucketName, objectName, err)
	}

	logger.Debugf("Opened gs://%s/%s (%d bytes, generation %d)", bucketName, objectName, r.Attrs.Size, r.Attrs.Generation)
	return r, nil
}

func (sh *storageClient) Close() error {
	return sh.client.Close()
}
