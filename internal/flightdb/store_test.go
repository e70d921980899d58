// store_test.go

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

package flightdb

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tello "github.com/SMerrony/tellosdk"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "flights.db"))
	t.Cleanup(func() { s.Close() })
	return s
}

var sampleState = tello.State{
	Attitude:            tello.Attitude{Pitch: 0, Roll: 1, Yaw: 2},
	Velocity:            tello.Velocity{X: -3, Y: 0, Z: 4},
	LowTemperature:      20,
	HighTemperature:     24,
	AverageTemperature:  22,
	DistanceFromTakeoff: 10,
	Height:              100,
	Battery:             88,
	Barometer:           10.5,
	FlightTime:          30,
	Acceleration:        tello.Acceleration{X: 0.1, Y: 0.2, Z: 9.8},
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id1, err := s.CreateSession(ctx, "192.168.10.1:8889", map[string]int{"timeout": 12})
	if err != nil {
		t.Fatalf("CreateSession failed with error %v", err)
	}
	id2, err := s.CreateSession(ctx, "192.168.10.1:8889", nil)
	if err != nil {
		t.Fatalf("CreateSession failed with error %v", err)
	}
	if id2 <= id1 {
		t.Errorf("Expected increasing session IDs, got %d then %d", id1, id2)
	}

	sess, err := s.Session(ctx, id1)
	if err != nil {
		t.Fatalf("Session failed with error %v", err)
	}
	if sess.Drone != "192.168.10.1:8889" || sess.Config == nil || *sess.Config != `{"timeout":12}` {
		t.Errorf("Unexpected session %+v", sess)
	}
	if time.Since(sess.StartTime) > time.Minute {
		t.Errorf("Unexpected start time %v", sess.StartTime)
	}

	all, err := s.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions failed with error %v", err)
	}
	if len(all) != 2 || all[0].ID != id1 || all[1].Config != nil {
		t.Errorf("Unexpected sessions %+v", all)
	}

	if _, err = s.Session(ctx, 999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestStates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sid, err := s.CreateSession(ctx, "drone", "raw config")
	if err != nil {
		t.Fatalf("CreateSession failed with error %v", err)
	}

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	second := sampleState
	second.Battery = 87
	for i, st := range []tello.State{sampleState, second} {
		if _, err = s.StoreState(ctx, sid, ts.Add(time.Duration(i)*100*time.Millisecond), st); err != nil {
			t.Fatalf("StoreState failed with error %v", err)
		}
	}

	states, err := s.States(ctx, sid)
	if err != nil {
		t.Fatalf("States failed with error %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("Expected 2 states, got %d", len(states))
	}
	if states[0].State != sampleState {
		t.Errorf("Expected %+v\n got %+v", sampleState, states[0].State)
	}
	if states[1].State.Battery != 87 || states[1].SessionID != sid {
		t.Errorf("Unexpected second state %+v", states[1])
	}
	if !states[0].Timestamp.Equal(ts) {
		t.Errorf("Expected timestamp %v, got %v", ts, states[0].Timestamp)
	}
}

func TestCommands(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sid, err := s.CreateSession(ctx, "drone", nil)
	if err != nil {
		t.Fatalf("CreateSession failed with error %v", err)
	}

	now := time.Now()
	if _, err = s.StoreCommand(ctx, sid, now, "takeoff", "ok", nil); err != nil {
		t.Fatalf("StoreCommand failed with error %v", err)
	}
	if _, err = s.StoreCommand(ctx, sid, now, "land", "", errors.New("receive failed")); err != nil {
		t.Fatalf("StoreCommand failed with error %v", err)
	}

	cmds, err := s.Commands(ctx, sid)
	if err != nil {
		t.Fatalf("Commands failed with error %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(cmds))
	}
	if cmds[0].Command != "takeoff" || cmds[0].Reply != "ok" || cmds[0].Error != nil {
		t.Errorf("Unexpected first command %+v", cmds[0])
	}
	if cmds[1].Command != "land" || cmds[1].Error == nil || *cmds[1].Error != "receive failed" {
		t.Errorf("Unexpected second command %+v", cmds[1])
	}
}

func TestStateNeedsSession(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.StoreState(context.Background(), 42, time.Now(), sampleState); err == nil {
		t.Error("Expected storing a state for a missing session to fail")
	}
}

func TestCloseTwice(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateSession(context.Background(), "drone", nil); err != nil {
		t.Fatalf("CreateSession failed with error %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close failed with error %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Second Close failed with error %v", err)
	}
}

func TestUseAfterClose(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id, err := s.CreateSession(ctx, "drone", nil)
	if err != nil {
		t.Fatalf("CreateSession failed with error %v", err)
	}
	if err = s.Close(); err != nil {
		t.Fatalf("Close failed with error %v", err)
	}

	if _, err = s.StoreState(ctx, id, time.Now(), sampleState); !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("Expected StoreState after Close to fail with sql.ErrConnDone, got %v", err)
	}
	if _, err = s.StoreCommand(ctx, id, time.Now(), "land", "ok", nil); !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("Expected StoreCommand after Close to fail with sql.ErrConnDone, got %v", err)
	}
	if _, err = s.Sessions(ctx); !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("Expected Sessions after Close to fail with sql.ErrConnDone, got %v", err)
	}

	// a Store closed before first use never opens the database
	unused := NewStore(filepath.Join(t.TempDir(), "unused.db"))
	unused.Close()
	if _, err = unused.CreateSession(ctx, "drone", nil); !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("Expected CreateSession after Close to fail with sql.ErrConnDone, got %v", err)
	}
}

func TestBadPath(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing", "flights.db"))
	defer s.Close()
	if _, err := s.CreateSession(context.Background(), "drone", nil); err == nil {
		t.Error("Expected a database in a missing directory to fail")
	}
}
