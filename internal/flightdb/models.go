// models.go

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
	"time"

	tello "github.com/SMerrony/tellosdk"
)

// Session is one recording run against one drone.
type Session struct {
	ID        int64
	StartTime time.Time
	Drone     string
	Config    *string // as given to CreateSession, JSON unless a string was passed
}

// StateRecord is a stored telemetry record.
type StateRecord struct {
	ID        int64
	SessionID int64
	Timestamp time.Time
	State     tello.State
}

// CommandRecord is one entry of the command journal.
type CommandRecord struct {
	ID        int64
	SessionID int64
	Timestamp time.Time
	Command   string
	Reply     string
	Error     *string // set when no reply was received
}

type stateData struct {
	ID         int64
	SessionID  int64
	Timestamp  time.Time
	Pitch      int
	Roll       int
	Yaw        int
	VelocityX  int
	VelocityY  int
	VelocityZ  int
	TempLow    int
	TempHigh   int
	TOF        int
	Height     int
	Battery    int
	Barometer  float64
	FlightTime int
	AccelX     float64
	AccelY     float64
	AccelZ     float64
}
