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

// Package locker provides the mutexes used by graphwalk, with optional
// invariant checking and hold-time debugging.
package locker

import (
	"runtime"
	"sync"
	"time"

	"github.com/googlecloudplatform/graphwalk/internal/logger"
	"github.com/jacobsa/syncutil"
)

// debugHoldThreshold is how long a lock may be held before the debugger
// reports it.
const debugHoldThreshold = 5 * time.Second

var (
	gEnableInvariantsCheck bool
	gEnableDebugMessages   bool
)

// EnableInvariantsCheck makes lockers created afterwards run their check
// function on every Lock and Unlock. A check reports a violation by
// panicking.
func EnableInvariantsCheck() {
	gEnableInvariantsCheck = true
	syncutil.EnableInvariantChecking()
}

// EnableDebugMessages makes lockers created afterwards log a message when the
// lock has been held for longer than five seconds.
func EnableDebugMessages() {
	gEnableDebugMessages = true
}

// New returns an exclusive locker. check is invoked after acquiring and
// before releasing the lock when invariant checking is enabled. It must only
// read state guarded by the lock.
func New(name string, check func()) sync.Locker {
	var l sync.Locker = &sync.Mutex{}

	if gEnableInvariantsCheck {
		im := syncutil.NewInvariantMutex(check)
		l = &im
	}

	if gEnableDebugMessages {
		l = &debugger{
			locker: l,
			name:   name,
		}
	}

	return l
}

// debugger reports locks that stay held past debugHoldThreshold, along with
// the stack of the goroutine holding them.
type debugger struct {
	locker sync.Locker
	name   string
	timer  *time.Timer
}

func (d *debugger) Lock() {
	d.locker.Lock()
	d.timer = reportHeld("lock", d.name)
}

func (d *debugger) Unlock() {
	d.timer.Stop()
	d.timer = nil

	d.locker.Unlock()
}

// reportHeld captures the caller's stack and arms a timer that logs it once
// the lock has been held for debugHoldThreshold. The caller stops the timer
// on release.
func reportHeld(kind, name string) *time.Timer {
	buf := make([]byte, 2048)
	n := runtime.Stack(buf, false /* all */)
	holder := string(buf[:n])

	return time.AfterFunc(debugHoldThreshold, func() {
		logger.Tracef("debug_mutex: Potential dead lock detected for a %s %q held by: %v\n", kind, name, holder)
	})
}
