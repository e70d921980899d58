// tello package flog.go - keep a log of everything sent to and received from the drone

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
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// FlightLog accumulates log lines in memory while it is enabled, and can be flushed to a file on demand.
// It is an io.Writer, so slog handlers can write straight into it; every Write is kept whole
// and concurrent writers never interleave.
type FlightLog struct {
	mu      sync.Mutex
	enabled bool
	buf     bytes.Buffer
	echo    io.Writer // optional copy of every line, eg. os.Stdout
}

// NewFlightLog returns a FlightLog; if echo is not nil every accepted line is also written to it.
func NewFlightLog(enabled bool, echo io.Writer) *FlightLog {
	return &FlightLog{enabled: enabled, echo: echo}
}

// SetEnabled turns collection on or off, lines already collected are kept.
func (fl *FlightLog) SetEnabled(on bool) {
	fl.mu.Lock()
	fl.enabled = on
	fl.mu.Unlock()
}

// Enabled reports whether lines are currently being collected.
func (fl *FlightLog) Enabled() bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.enabled
}

// Write appends p if the log is enabled.  It never fails.
func (fl *FlightLog) Write(p []byte) (int, error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if !fl.enabled {
		return len(p), nil
	}
	fl.buf.Write(p)
	if fl.echo != nil {
		fl.echo.Write(p) // a broken echo must not stop the log
	}
	return len(p), nil
}

// Log appends a single line.
func (fl *FlightLog) Log(line string) {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	fl.Write([]byte(line))
}

// Logger returns a structured logger whose records are collected by this FlightLog.
func (fl *FlightLog) Logger(level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(fl, &slog.HandlerOptions{Level: level}))
}

// Lines returns a copy of the collected lines.
func (fl *FlightLog) Lines() []string {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	s := strings.TrimSuffix(fl.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Len returns the number of bytes collected so far.
func (fl *FlightLog) Len() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.buf.Len()
}

// WriteTo writes everything collected so far to w.
func (fl *FlightLog) WriteTo(w io.Writer) (int64, error) {
	fl.mu.Lock()
	snapshot := bytes.Clone(fl.buf.Bytes())
	fl.mu.Unlock()
	n, err := w.Write(snapshot)
	return int64(n), err
}

// Flush writes everything collected so far to the named file, replacing it.
func (fl *FlightLog) Flush(path string) error {
	fl.mu.Lock()
	snapshot := bytes.Clone(fl.buf.Bytes())
	fl.mu.Unlock()
	return os.WriteFile(path, snapshot, 0644)
}
