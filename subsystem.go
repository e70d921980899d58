// subsystem.go

// Copyright (C) 2018  Steve Merrony

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package tello

import "sync"

// The Go runtime brings up the platform network stack by itself, so by default
// startup and teardown do nothing.  A process that needs its own one-off network
// setup (eg. selecting a Wi-Fi interface) may install hooks with SetSubsystemHooks
// before the first Conn is opened.
var subsys struct {
	mu       sync.Mutex
	users    int
	startup  func() error
	teardown func()
}

// SetSubsystemHooks installs the funcs run when the first Conn is opened and
// when the last one is closed.  Either may be nil.
func SetSubsystemHooks(startup func() error, teardown func()) {
	subsys.mu.Lock()
	subsys.startup = startup
	subsys.teardown = teardown
	subsys.mu.Unlock()
}

// acquireSubsystem registers a new user, starting the subsystem if it is the first one.
func acquireSubsystem() error {
	subsys.mu.Lock()
	defer subsys.mu.Unlock()
	if subsys.users == 0 && subsys.startup != nil {
		if err := subsys.startup(); err != nil {
			return err
		}
	}
	subsys.users++
	return nil
}

// releaseSubsystem drops a user, tearing the subsystem down after the last one.
func releaseSubsystem() {
	subsys.mu.Lock()
	defer subsys.mu.Unlock()
	if subsys.users == 0 {
		return
	}
	subsys.users--
	if subsys.users == 0 && subsys.teardown != nil {
		subsys.teardown()
	}
}

func subsystemUsers() int {
	subsys.mu.Lock()
	defer subsys.mu.Unlock()
	return subsys.users
}
