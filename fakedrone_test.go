// fakedrone_test.go

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

import (
	"net"
	"sync"
	"testing"
	"time"
)

const testTimeout = 2 * time.Second

var loopback = net.IPv4(127, 0, 0, 1)

// fakeDrone answers commands on a loopback port.
// Commands without a configured reply are answered "ok"; a configured reply of "" means no answer.
type fakeDrone struct {
	conn    *net.UDPConn
	mu      sync.Mutex
	replies map[string]string
	got     []string
}

func newFakeDrone(t *testing.T, replies map[string]string) *fakeDrone {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: loopback})
	if err != nil {
		t.Fatalf("Fake drone could not listen: %v", err)
	}
	if replies == nil {
		replies = map[string]string{}
	}
	fd := &fakeDrone{conn: conn, replies: replies}
	t.Cleanup(func() { conn.Close() })
	go fd.serve()
	return fd
}

func (fd *fakeDrone) serve() {
	buf := make([]byte, 1024)
	for {
		n, from, err := fd.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		cmd := string(buf[:n])
		fd.mu.Lock()
		fd.got = append(fd.got, cmd)
		reply, ok := fd.replies[cmd]
		fd.mu.Unlock()
		if !ok {
			reply = "ok"
		}
		if reply != "" {
			fd.conn.WriteToUDP([]byte(reply), from)
		}
	}
}

func (fd *fakeDrone) endpoint() Endpoint {
	return endpointOf(fd.conn.LocalAddr().(*net.UDPAddr))
}

func (fd *fakeDrone) setReply(cmd, reply string) {
	fd.mu.Lock()
	fd.replies[cmd] = reply
	fd.mu.Unlock()
}

func (fd *fakeDrone) commands() []string {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	return append([]string(nil), fd.got...)
}

// push sends an unsolicited datagram from the drone's address, as telemetry and video are.
func (fd *fakeDrone) push(t *testing.T, to Endpoint, payload []byte) {
	t.Helper()
	addr := &net.UDPAddr{IP: loopback, Port: to.Port}
	if _, err := fd.conn.WriteToUDP(payload, addr); err != nil {
		t.Fatalf("Fake drone could not push to %v: %v", to, err)
	}
}

// testConfig points every link at fd on loopback, with ephemeral local ports.
func testConfig(fd *fakeDrone) Config {
	cfg := DefaultConfig()
	cfg.DroneAddr = "127.0.0.1"
	cfg.DronePort = fd.endpoint().Port
	cfg.LocalAddr = "127.0.0.1"
	cfg.ControlPort = 0
	cfg.StatePort = 0
	cfg.VideoPort = 0
	cfg.Timeout = testTimeout
	return cfg
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
