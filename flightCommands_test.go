// flightCommands_test.go

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
	"testing"
)

func TestFlightCommandText(t *testing.T) {
	fd := newFakeDrone(t, map[string]string{"flip b": "error No valid imu"})
	drone := dialTest(t, testConfig(fd))

	calls := []struct {
		call func() (string, error)
		want string
	}{
		{drone.TakeOff, "takeoff"},
		{func() (string, error) { return drone.Forward(50) }, "forward 50"},
		{func() (string, error) { return drone.Backward(20) }, "back 20"},
		{func() (string, error) { return drone.Left(30) }, "left 30"},
		{func() (string, error) { return drone.Right(40) }, "right 40"},
		{func() (string, error) { return drone.Up(25) }, "up 25"},
		{func() (string, error) { return drone.Down(25) }, "down 25"},
		{func() (string, error) { return drone.TurnRight(90) }, "cw 90"},
		{func() (string, error) { return drone.CounterClockwise(45) }, "ccw 45"},
		{func() (string, error) { return drone.TurnLeft(10) }, "ccw 10"},
		{func() (string, error) { return drone.Flip(FlipForward) }, "flip f"},
		{func() (string, error) { return drone.Flip(FlipRight) }, "flip r"},
		{func() (string, error) { return drone.GoTo(10, 20, 30, 40) }, "go 10 20 30 40"},
		{func() (string, error) { return drone.Curve(20, 20, 20, 60, 40, 0, 30) }, "curve 20 20 20 60 40 0 30"},
		{func() (string, error) { return drone.SetSpeed(60) }, "speed 60"},
		{drone.Hover, "rc 0 0 0 0"},
		{func() (string, error) { return drone.RemoteControl(-100, 0, 50, 100) }, "rc -100 0 50 100"},
		{func() (string, error) { return drone.SetWifi("tello-net", "secret") }, "wifi tello-net secret"},
		{drone.Land, "land"},
		{drone.Emergency, "emergency"},
	}
	for _, c := range calls {
		reply, err := c.call()
		if err != nil {
			t.Errorf("%s failed with error %v", c.want, err)
			continue
		}
		if reply != "ok" {
			t.Errorf("Expected reply ok to %s, got %q", c.want, reply)
		}
	}

	got := fd.commands()[1:] // after the handshake
	if len(got) != len(calls) {
		t.Fatalf("Expected %d commands, got %d: %q", len(calls), len(got), got)
	}
	for i, c := range calls {
		if got[i] != c.want {
			t.Errorf("Expected %q, got %q", c.want, got[i])
		}
	}

	// in-band refusals are replies, not errors
	if reply, err := drone.Flip(FlipBackward); err != nil || reply != "error No valid imu" {
		t.Errorf("Expected the refusal as a reply, got %q (%v)", reply, err)
	}
}

func TestFlipRejectsUnknownDirection(t *testing.T) {
	fd := newFakeDrone(t, nil)
	drone := dialTest(t, testConfig(fd))
	before := len(fd.commands())
	if _, err := drone.Flip(FlipType(42)); err == nil {
		t.Error("Expected an error for an unknown flip direction")
	}
	if len(fd.commands()) != before {
		t.Error("Expected nothing to be sent for an unknown flip direction")
	}
}

func TestFlipTypeString(t *testing.T) {
	for ft, want := range map[FlipType]string{FlipForward: "f", FlipLeft: "l", FlipBackward: "b", FlipRight: "r", FlipType(9): "FlipType(9)"} {
		if ft.String() != want {
			t.Errorf("Expected %s, got %s", want, ft)
		}
	}
}

func TestRawCommand(t *testing.T) {
	fd := newFakeDrone(t, map[string]string{"sdk?": "20"})
	drone := dialTest(t, testConfig(fd))
	if reply, err := drone.Command("sdk?"); err != nil || reply != "20" {
		t.Errorf("Expected 20, got %q (%v)", reply, err)
	}
}
