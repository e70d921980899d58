// telemetry.go

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
	"regexp"
	"strconv"
	"strings"
)

// State is one complete telemetry record from the drone.
// A State is never updated in place, each record produces a new one.
type State struct {
	Attitude            Attitude
	Velocity            Velocity
	LowTemperature      int     // degrees C
	HighTemperature     int     // degrees C
	AverageTemperature  float64 // midpoint of Low and High
	DistanceFromTakeoff int     // time-of-flight sensor, cm
	Height              int     // cm
	Battery             int     // percent
	Barometer           float64 // cm
	FlightTime          int     // seconds the motors have been running
	Acceleration        Acceleration
}

// Attitude is the drone's orientation in degrees.
type Attitude struct {
	Pitch, Roll, Yaw int
}

// Velocity is the drone's speed along each axis.
type Velocity struct {
	X, Y, Z int
}

// Acceleration is the drone's acceleration along each axis.
type Acceleration struct {
	X, Y, Z float64
}

// the telemetry keys in the order the drone sends them, this order is fixed
var stateKeys = []string{
	"pitch", "roll", "yaw",
	"vgx", "vgy", "vgz",
	"templ", "temph",
	"tof", "h", "bat", "baro", "time",
	"agx", "agy", "agz",
}

var stateRecord = keyValuePattern(stateKeys...)

// keyValuePattern matches a whole "k1:v1;k2:v2;...;" record with exactly the given keys, in order.
func keyValuePattern(keys ...string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("^")
	for _, k := range keys {
		sb.WriteString(regexp.QuoteMeta(k))
		sb.WriteString(":([^;]*);")
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}

// DecodeState parses a telemetry datagram.  Surrounding whitespace is ignored.
// An error wrapping ErrTelemetryGrammar is returned if the keys or delimiters are wrong,
// and one wrapping ErrMalformedTelemetry if a value is not a number.
func DecodeState(raw string) (State, error) {
	rec := normalizeReply([]byte(raw))
	m := stateRecord.FindStringSubmatch(rec)
	if m == nil {
		return State{}, &TelemetryError{Kind: ErrTelemetryGrammar, Record: rec}
	}
	d := fieldDecoder{keys: stateKeys, vals: m[1:], record: rec}
	s := State{
		Attitude:            Attitude{Pitch: d.asInt(0), Roll: d.asInt(1), Yaw: d.asInt(2)},
		Velocity:            Velocity{X: d.asInt(3), Y: d.asInt(4), Z: d.asInt(5)},
		LowTemperature:      d.asInt(6),
		HighTemperature:     d.asInt(7),
		DistanceFromTakeoff: d.asInt(8),
		Height:              d.asInt(9),
		Battery:             d.asInt(10),
		Barometer:           d.asFloat(11),
		FlightTime:          d.asInt(12),
		Acceleration:        Acceleration{X: d.asFloat(13), Y: d.asFloat(14), Z: d.asFloat(15)},
	}
	if d.err != nil {
		return State{}, d.err
	}
	s.AverageTemperature = float64(s.LowTemperature+s.HighTemperature) / 2
	return s, nil
}

// fieldDecoder converts captured values, keeping only the first failure.
type fieldDecoder struct {
	keys   []string
	vals   []string
	record string
	err    error
}

func (d *fieldDecoder) asInt(i int) int {
	if d.err != nil {
		return 0
	}
	v, err := strconv.Atoi(d.vals[i])
	if err != nil {
		d.fail(i, err)
	}
	return v
}

func (d *fieldDecoder) asFloat(i int) float64 {
	if d.err != nil {
		return 0
	}
	v, err := parseDecimal(d.vals[i])
	if err != nil {
		d.fail(i, err)
	}
	return v
}

func (d *fieldDecoder) fail(i int, err error) {
	d.err = &TelemetryError{
		Kind:   ErrMalformedTelemetry,
		Field:  d.keys[i],
		Value:  d.vals[i],
		Record: d.record,
		Err:    err,
	}
}
