// errors.go

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
	"fmt"
	"net"
	"syscall"

	"github.com/pkg/errors"
)

// Error kinds, use errors.Is to test for them.
var (
	ErrSocketCreate       = errors.New("could not create socket")
	ErrBind               = errors.New("could not bind socket")
	ErrTimeoutConfig      = errors.New("could not configure socket timeout")
	ErrResolve            = errors.New("could not resolve endpoint")
	ErrSend               = errors.New("send failed")
	ErrReceive            = errors.New("receive failed")
	ErrUnexpectedSender   = errors.New("datagram from unexpected sender")
	ErrTelemetryGrammar   = errors.New("telemetry record does not match grammar")
	ErrMalformedTelemetry = errors.New("malformed telemetry value")
	ErrMalformedReply     = errors.New("malformed reply")
)

// ConnError reports a failed operation on a Conn.
type ConnError struct {
	Kind     error    // one of the Err* kinds above
	Op       string   // "bind", "send", "receive"...
	Endpoint Endpoint // the endpoint involved
	Err      error    // the underlying platform error, may be nil
}

func (e *ConnError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("tello: %s %s: %v", e.Op, e.Endpoint, e.Kind)
	}
	return fmt.Sprintf("tello: %s %s: %v: %v", e.Op, e.Endpoint, e.Kind, e.Err)
}

func (e *ConnError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Timeout is true when the operation gave up because the socket deadline passed.
func (e *ConnError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Errno returns the platform error code behind the failure, if there is one.
func (e *ConnError) Errno() (syscall.Errno, bool) {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return errno, true
	}
	return 0, false
}

// UnexpectedSenderError is returned when a datagram arrives from an address other than the drone's.
// Only the address is checked, the drone may answer from any port.
type UnexpectedSenderError struct {
	Want    Endpoint
	Got     Endpoint
	Payload []byte
}

func (e *UnexpectedSenderError) Error() string {
	return fmt.Sprintf("tello: datagram from unexpected address %s (port %d), expected %s",
		e.Got.Host, e.Got.Port, e.Want.Host)
}

func (e *UnexpectedSenderError) Unwrap() error { return ErrUnexpectedSender }

// TelemetryError reports why a telemetry record could not be decoded.
// Field and Value are only set for ErrMalformedTelemetry.
type TelemetryError struct {
	Kind   error
	Field  string
	Value  string
	Record string
	Err    error
}

func (e *TelemetryError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("tello: %v: %q", e.Kind, e.Record)
	}
	return fmt.Sprintf("tello: %v: field %s has value %q", e.Kind, e.Field, e.Value)
}

func (e *TelemetryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ReplyError is returned when a query reply does not have the expected shape.
type ReplyError struct {
	Reply string
	Shape string
	Err   error
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("tello: %v: %q is not a %s", ErrMalformedReply, e.Reply, e.Shape)
}

func (e *ReplyError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedReply}
	}
	return []error{ErrMalformedReply, e.Err}
}
