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

package locker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/googlecloudplatform/graphwalk/internal/logger"
)

// RWLocker is a reader/writer lock.
type RWLocker interface {
	sync.Locker
	RLock()
	RUnlock()
}

// NewRW returns a reader/writer locker honouring the modes of New. check runs
// on every transition on either side of the lock, so it must only read.
//
// With debug messages enabled the writer side is reported the same way as
// New's locks. A writer kept waiting past the threshold is reported along with
// the number of readers inside.
func NewRW(name string, check func()) RWLocker {
	if !gEnableInvariantsCheck && !gEnableDebugMessages {
		return &sync.RWMutex{}
	}

	l := &rwLocker{name: name, debug: gEnableDebugMessages}
	if gEnableInvariantsCheck {
		l.check = check
	}
	return l
}

type rwLocker struct {
	mu    sync.RWMutex
	name  string
	check func()
	debug bool

	readers atomic.Int32

	// GUARDED_BY(mu) on the writer side.
	held *time.Timer
}

func (l *rwLocker) runCheck() {
	if l.check != nil {
		l.check()
	}
}

func (l *rwLocker) Lock() {
	var waiting *time.Timer
	if l.debug {
		waiting = time.AfterFunc(debugHoldThreshold, func() {
			logger.Tracef("debug_mutex: writer blocked on rw lock %q for %v with %d readers inside\n", l.name, debugHoldThreshold, l.readers.Load())
		})
	}

	l.mu.Lock()
	if waiting != nil {
		waiting.Stop()
		l.held = reportHeld("rw lock", l.name)
	}
	l.runCheck()
}

func (l *rwLocker) Unlock() {
	l.runCheck()
	if l.held != nil {
		l.held.Stop()
		l.held = nil
	}
	l.mu.Unlock()
}

func (l *rwLocker) RLock() {
	l.mu.RLock()
	l.readers.Add(1)
	l.runCheck()
}

func (l *rwLocker) RUnlock() {
	l.runCheck()
	l.readers.Add(-1)
	l.mu.RUnlock()
}
