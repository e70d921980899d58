// conn.go

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
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/ipv4"
)

const maxLoggedPayload = 64 // longer payloads (eg. video) are truncated in log records

// a read deadline already in the past fails before looking at the socket, so pending
// datagrams are collected with this short wait instead
const discardWait = time.Millisecond

// Endpoint is an address/port pair identifying one end of a UDP flow.
type Endpoint struct {
	Host string
	Port int
}

// ParseEndpoint splits a "host:port" string into an Endpoint.
func ParseEndpoint(hostPort string) (Endpoint, error) {
	host, port, err := net.SplitHostPort(hostPort)
	if err != nil {
		return Endpoint{}, errors.Wrapf(err, "tello: bad endpoint %q", hostPort)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return Endpoint{}, errors.Errorf("tello: bad port in endpoint %q", hostPort)
	}
	return Endpoint{Host: host, Port: p}, nil
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// UDPAddr resolves the Endpoint to an IPv4 UDP address.
func (e Endpoint) UDPAddr() (*net.UDPAddr, error) {
	return net.ResolveUDPAddr("udp4", e.String())
}

func endpointOf(addr *net.UDPAddr) Endpoint {
	return Endpoint{Host: addr.IP.String(), Port: addr.Port}
}

// Conn is one UDP socket bound to a local endpoint and talking to a single, fixed, remote endpoint.
// Send and Receive block for at most the timeout given to OpenConn.
// A Conn may be used from several goroutines, but datagrams are not paired with each other here,
// see Commander for request/reply pairing.
type Conn struct {
	uc         *net.UDPConn
	pc         *ipv4.PacketConn
	local      Endpoint
	remote     Endpoint
	remoteAddr *net.UDPAddr
	timeout    time.Duration
	logger     *slog.Logger
	closeOnce  sync.Once
	closeErr   error
}

// OpenConn binds a UDP socket to local and directs it at remote.
// The same timeout is applied to every send and every receive.
// A nil logger discards the per-datagram log records.
func OpenConn(local, remote Endpoint, timeout time.Duration, logger *slog.Logger) (*Conn, error) {
	if logger == nil {
		logger = discardLogger()
	}
	if timeout <= 0 {
		return nil, &ConnError{Kind: ErrTimeoutConfig, Op: "configure", Endpoint: local,
			Err: fmt.Errorf("timeout %v is not positive", timeout)}
	}
	localAddr, err := local.UDPAddr()
	if err != nil {
		return nil, &ConnError{Kind: ErrResolve, Op: "resolve", Endpoint: local, Err: err}
	}
	remoteAddr, err := remote.UDPAddr()
	if err != nil {
		return nil, &ConnError{Kind: ErrResolve, Op: "resolve", Endpoint: remote, Err: err}
	}

	if err = acquireSubsystem(); err != nil {
		return nil, &ConnError{Kind: ErrSocketCreate, Op: "startup", Endpoint: local, Err: err}
	}

	// Control runs between socket creation and bind, so it tells us which of the two failed
	var created bool
	lc := net.ListenConfig{Control: func(network, address string, rc syscall.RawConn) error {
		created = true
		return nil
	}}
	pconn, err := lc.ListenPacket(context.Background(), "udp4", localAddr.String())
	if err != nil {
		releaseSubsystem()
		kind := ErrSocketCreate
		if created {
			kind = ErrBind
		}
		return nil, &ConnError{Kind: kind, Op: "bind", Endpoint: local, Err: err}
	}
	uc := pconn.(*net.UDPConn)
	if err = uc.SetDeadline(time.Time{}); err != nil {
		uc.Close()
		releaseSubsystem()
		return nil, &ConnError{Kind: ErrTimeoutConfig, Op: "configure", Endpoint: local, Err: err}
	}

	c := &Conn{
		uc:         uc,
		pc:         ipv4.NewPacketConn(uc),
		local:      Endpoint{Host: local.Host, Port: uc.LocalAddr().(*net.UDPAddr).Port},
		remote:     remote,
		remoteAddr: remoteAddr,
		timeout:    timeout,
		logger:     logger,
	}
	// not every platform can report the destination address, we just log less there
	if err = c.pc.SetControlMessage(ipv4.FlagDst, true); err != nil {
		logger.Debug("destination control messages unavailable", "local", c.local.String(), "err", err)
	}
	return c, nil
}

// LocalEndpoint returns the bound local endpoint, with the actual port if 0 was requested.
func (c *Conn) LocalEndpoint() Endpoint { return c.local }

// RemoteEndpoint returns the endpoint that all datagrams are sent to and expected from.
func (c *Conn) RemoteEndpoint() Endpoint { return c.remote }

// Timeout returns the per-operation timeout.
func (c *Conn) Timeout() time.Duration { return c.timeout }

// Send transmits b as a single datagram to the remote endpoint.
func (c *Conn) Send(b []byte) error {
	if err := c.uc.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return &ConnError{Kind: ErrSend, Op: "send", Endpoint: c.remote, Err: err}
	}
	n, err := c.uc.WriteToUDP(b, c.remoteAddr)
	if err != nil {
		return &ConnError{Kind: ErrSend, Op: "send", Endpoint: c.remote, Err: err}
	}
	c.logger.Info("sent",
		slog.String("local", c.local.String()),
		slog.String("remote", c.remote.String()),
		slog.Int("bytes", n),
		slog.String("payload", loggablePayload(b)))
	return nil
}

// Receive waits for exactly one datagram of at most maxSize bytes, longer datagrams are truncated.
// A datagram from any host other than the remote endpoint's is rejected with an
// *UnexpectedSenderError, whatever port it came from is acceptable.
func (c *Conn) Receive(maxSize int) ([]byte, Endpoint, error) {
	if maxSize <= 0 {
		return nil, Endpoint{}, &ConnError{Kind: ErrReceive, Op: "receive", Endpoint: c.local,
			Err: fmt.Errorf("buffer size %d is not positive", maxSize)}
	}
	buf := make([]byte, maxSize)
	if err := c.pc.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, Endpoint{}, &ConnError{Kind: ErrReceive, Op: "receive", Endpoint: c.local, Err: err}
	}
	n, cm, src, err := c.pc.ReadFrom(buf)
	if err != nil {
		return nil, Endpoint{}, &ConnError{Kind: ErrReceive, Op: "receive", Endpoint: c.local, Err: err}
	}
	srcAddr, ok := src.(*net.UDPAddr)
	if !ok {
		return nil, Endpoint{}, &ConnError{Kind: ErrReceive, Op: "receive", Endpoint: c.local,
			Err: fmt.Errorf("unexpected address type %T", src)}
	}
	from := endpointOf(srcAddr)
	if !srcAddr.IP.Equal(c.remoteAddr.IP) {
		return nil, from, &UnexpectedSenderError{Want: c.remote, Got: from, Payload: buf[:n]}
	}

	attrs := []slog.Attr{
		slog.String("local", c.local.String()),
		slog.String("from", from.String()),
		slog.Int("bytes", n),
		slog.String("payload", loggablePayload(buf[:n])),
	}
	if cm != nil && cm.Dst != nil {
		attrs = append(attrs, slog.String("dst", cm.Dst.String()))
	}
	c.logger.LogAttrs(context.Background(), slog.LevelInfo, "received", attrs...)
	return buf[:n], from, nil
}

// discardPending reads and drops every datagram already queued on the socket, returning how many there were.
// Commander uses it so that a reply arriving after its request timed out is not taken as the next reply.
func (c *Conn) discardPending() (int, error) {
	buf := make([]byte, DefaultReplySize)
	for n := 0; ; n++ {
		if err := c.uc.SetReadDeadline(time.Now().Add(discardWait)); err != nil {
			return n, &ConnError{Kind: ErrReceive, Op: "discard", Endpoint: c.local, Err: err}
		}
		size, src, err := c.uc.ReadFromUDP(buf)
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return n, nil
		}
		if err != nil {
			return n, &ConnError{Kind: ErrReceive, Op: "discard", Endpoint: c.local, Err: err}
		}
		c.logger.Debug("discarded stale datagram",
			slog.String("local", c.local.String()),
			slog.String("from", endpointOf(src).String()),
			slog.Int("bytes", size),
			slog.String("payload", loggablePayload(buf[:size])))
	}
}

// Close releases the socket, it is safe to call more than once.
// Any Receive blocked on the Conn returns an error wrapping net.ErrClosed.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.uc.Close()
		releaseSubsystem()
	})
	return c.closeErr
}

func loggablePayload(b []byte) string {
	if len(b) > maxLoggedPayload {
		return strconv.Quote(string(b[:maxLoggedPayload])) + "..."
	}
	return strconv.Quote(string(b))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
