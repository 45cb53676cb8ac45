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
	"testing"

	"github.com/stretchr/testify/assert"
)

// withModes runs fn with the given global modes and restores them afterwards.
func withModes(t *testing.T, invariants, debug bool, fn func()) {
	t.Helper()
	oldInvariants, oldDebug := gEnableInvariantsCheck, gEnableDebugMessages
	gEnableInvariantsCheck, gEnableDebugMessages = invariants, debug
	defer func() {
		gEnableInvariantsCheck, gEnableDebugMessages = oldInvariants, oldDebug
	}()
	fn()
}

func TestNew_PlainMutexByDefault(t *testing.T) {
	withModes(t, false, false, func() {
		calls := 0
		l := New("plain", func() { calls++ })

		l.Lock()
		l.Unlock()

		assert.Equal(t, 0, calls)
	})
}

func TestNew_DebuggerWrapsLock(t *testing.T) {
	withModes(t, false, true, func() {
		l := New("debug", func() {})

		_, ok := l.(*debugger)
		assert.True(t, ok)
		l.Lock()
		l.Unlock()
		assert.Nil(t, l.(*debugger).timer)
	})
}

func TestNewRW_InvariantCheckedOnEveryTransition(t *testing.T) {
	withModes(t, true, false, func() {
		calls := 0
		l := NewRW("rw", func() { calls++ })

		l.Lock()
		l.Unlock()
		l.RLock()
		l.RUnlock()

		assert.Equal(t, 4, calls)
	})
}

func TestNewRW_ViolationPanics(t *testing.T) {
	withModes(t, true, false, func() {
		broken := false
		l := NewRW("rw", func() {
			if broken {
				panic("invariant violated")
			}
		})
		l.Lock()
		broken = true

		assert.Panics(t, func() { l.Unlock() })
	})
}

func TestNewRW_PlainRWMutexByDefault(t *testing.T) {
	withModes(t, false, false, func() {
		l := NewRW("plain", func() { t.Fatal("check must not run") })

		_, ok := l.(*sync.RWMutex)
		assert.True(t, ok)
		l.Lock()
		l.Unlock()
	})
}

func TestNewRW_DebuggerCountsReaders(t *testing.T) {
	withModes(t, true, true, func() {
		l := NewRW("rw", func() {})
		rw := l.(*rwLocker)

		l.RLock()
		l.RLock()
		assert.EqualValues(t, 2, rw.readers.Load())
		l.RUnlock()
		l.RUnlock()
		assert.Zero(t, rw.readers.Load())

		l.Lock()
		assert.NotNil(t, rw.held)
		l.Unlock()
		assert.Nil(t, rw.held)
	})
}

func TestNewRW_DebugOnlySkipsCheck(t *testing.T) {
	withModes(t, false, true, func() {
		calls := 0
		l := NewRW("rw", func() { calls++ })

		l.Lock()
		l.Unlock()
		l.RLock()
		l.RUnlock()

		assert.Zero(t, calls)
	})
}
