// exchange.go

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
	"bytes"
	"strings"
	"sync"
)

// DefaultReplySize bounds the datagram buffer used for command replies.
const DefaultReplySize = 128

// Commander sends text commands over a Conn and pairs each with the first reply received after it was sent.
// Replies still queued from an earlier command, such as one that timed out, are discarded before sending.
// There is no retry; a lost command or reply is returned to the caller as an error.
type Commander struct {
	mu   sync.Mutex // held for a whole send/receive pair
	conn *Conn
}

// NewCommander returns a Commander using conn.
func NewCommander(conn *Conn) *Commander {
	return &Commander{conn: conn}
}

// Conn returns the underlying connection.
func (cmdr *Commander) Conn() *Conn { return cmdr.conn }

// SendCommand sends text and returns the reply with surrounding whitespace removed.
func (cmdr *Commander) SendCommand(text string) (string, error) {
	cmdr.mu.Lock()
	defer cmdr.mu.Unlock()

	if _, err := cmdr.conn.discardPending(); err != nil {
		return "", err
	}
	if err := cmdr.conn.Send([]byte(text)); err != nil {
		return "", err
	}
	reply, _, err := cmdr.conn.Receive(DefaultReplySize)
	if err != nil {
		return "", err
	}
	return normalizeReply(reply), nil
}

// SendData sends b without waiting for any reply.
func (cmdr *Commander) SendData(b []byte) error {
	return cmdr.conn.Send(b)
}

// ReceiveData returns the next datagram, unaltered, for receive-only links such as telemetry and video.
func (cmdr *Commander) ReceiveData(maxSize int) ([]byte, error) {
	b, _, err := cmdr.conn.Receive(maxSize)
	return b, err
}

// normalizeReply treats the reply as a NUL-terminated string and strips surrounding whitespace.
func normalizeReply(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b))
}
