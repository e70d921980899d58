// flightCommands.go

// This file contains the high-level Tello flight command API

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

	"github.com/pkg/errors"
)

// Every command here waits for the drone's reply and returns it, stripped.
// The drone signals failure in-band (eg. "error Not joystick"), so a nil error only means a reply arrived.

// FlipType represents a flip direction.
type FlipType int

// Flip types...
const (
	FlipForward FlipType = iota
	FlipLeft
	FlipBackward
	FlipRight
)

var flipLetters = map[FlipType]string{
	FlipForward:  "f",
	FlipLeft:     "l",
	FlipBackward: "b",
	FlipRight:    "r",
}

// String returns the letter the drone uses for the flip direction.
func (ft FlipType) String() string {
	if l, ok := flipLetters[ft]; ok {
		return l
	}
	return fmt.Sprintf("FlipType(%d)", int(ft))
}

// Command sends text to the drone unaltered and returns its reply.
func (tello *Tello) Command(text string) (string, error) {
	reply, err := tello.ctrl.SendCommand(text)
	if err != nil {
		return "", errors.Wrapf(err, "tello: command %q", text)
	}
	return reply, nil
}

func (tello *Tello) commandf(format string, args ...any) (string, error) {
	return tello.Command(fmt.Sprintf(format, args...))
}

// TakeOff sends a normal takeoff request to the Tello
func (tello *Tello) TakeOff() (string, error) {
	return tello.Command("takeoff")
}

// Land sends a normal Land request to the Tello
func (tello *Tello) Land() (string, error) {
	return tello.Command("land")
}

// Emergency stops the motors immediately.
func (tello *Tello) Emergency() (string, error) {
	return tello.Command("emergency")
}

// Hover centres all the sticks, stopping any rc-driven motion.
func (tello *Tello) Hover() (string, error) {
	return tello.RemoteControl(0, 0, 0, 0)
}

// Forward flies forward cm centimetres.
func (tello *Tello) Forward(cm int) (string, error) {
	return tello.commandf("forward %d", cm)
}

// Backward flies backward cm centimetres.
func (tello *Tello) Backward(cm int) (string, error) {
	return tello.commandf("back %d", cm)
}

// Left flies left cm centimetres.
func (tello *Tello) Left(cm int) (string, error) {
	return tello.commandf("left %d", cm)
}

// Right flies right cm centimetres.
func (tello *Tello) Right(cm int) (string, error) {
	return tello.commandf("right %d", cm)
}

// Up climbs cm centimetres.
func (tello *Tello) Up(cm int) (string, error) {
	return tello.commandf("up %d", cm)
}

// Down descends cm centimetres.
func (tello *Tello) Down(cm int) (string, error) {
	return tello.commandf("down %d", cm)
}

// Clockwise rotates the drone clockwise by deg degrees.
func (tello *Tello) Clockwise(deg int) (string, error) {
	return tello.commandf("cw %d", deg)
}

// TurnRight is an alias for Clockwise()
func (tello *Tello) TurnRight(deg int) (string, error) {
	return tello.Clockwise(deg)
}

// Anticlockwise rotates the drone anticlockwise by deg degrees.
func (tello *Tello) Anticlockwise(deg int) (string, error) {
	return tello.commandf("ccw %d", deg)
}

// TurnLeft is an alias for Anticlockwise()
func (tello *Tello) TurnLeft(deg int) (string, error) {
	return tello.Anticlockwise(deg)
}

// CounterClockwise is an alias for Anticlockwise()
func (tello *Tello) CounterClockwise(deg int) (string, error) {
	return tello.Anticlockwise(deg)
}

// Flip performs a flip in the given direction.
func (tello *Tello) Flip(dir FlipType) (string, error) {
	l, ok := flipLetters[dir]
	if !ok {
		return "", errors.Errorf("tello: unsupported flip direction %v", dir)
	}
	return tello.Command("flip " + l)
}

// GoTo flies to x, y, z (cm, relative to the current position) at speed cm/s.
func (tello *Tello) GoTo(x, y, z, speed int) (string, error) {
	return tello.commandf("go %d %d %d %d", x, y, z, speed)
}

// Curve flies a curve through (x1, y1, z1) to (x2, y2, z2) at speed cm/s.
func (tello *Tello) Curve(x1, y1, z1, x2, y2, z2, speed int) (string, error) {
	return tello.commandf("curve %d %d %d %d %d %d %d", x1, y1, z1, x2, y2, z2, speed)
}

// SetSpeed sets the speed used by the movement commands, in cm/s.
func (tello *Tello) SetSpeed(cms int) (string, error) {
	return tello.commandf("speed %d", cms)
}

// RemoteControl sets the four virtual sticks, each in the range -100..100.
func (tello *Tello) RemoteControl(roll, pitch, throttle, yaw int) (string, error) {
	return tello.commandf("rc %d %d %d %d", roll, pitch, throttle, yaw)
}

// SetWifi changes the drone's access point name and password.
func (tello *Tello) SetWifi(ssid, password string) (string, error) {
	return tello.commandf("wifi %s %s", ssid, password)
}
