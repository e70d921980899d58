// replies.go

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

	"github.com/pkg/errors"
)

// These parsers work on replies that have already been received and stripped,
// they never touch the network.

var (
	measurementReply = regexp.MustCompile(`^(\d+)\s*([A-Za-z]*)`)
	rangeReply       = regexp.MustCompile(`^(-?\d+)~(-?\d+)\s*([A-Za-z]*)`)
	attitudeReply    = keyValuePattern("pitch", "roll", "yaw")
	accelReply       = keyValuePattern("agx", "agy", "agz")
	decimalValue     = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)
)

// Measurement is a number followed by its unit, eg. "100s" or "30dm".
type Measurement struct {
	Value int
	Unit  string
}

// RangeMeasurement is a low~high pair followed by its unit, eg. "63~65C".
type RangeMeasurement struct {
	Low, High int
	Unit      string
}

// Average returns the midpoint of the range.
func (r RangeMeasurement) Average() float64 {
	return float64(r.Low+r.High) / 2
}

// ParseMeasurement extracts the leading digits of reply and the unit letters that follow them.
func ParseMeasurement(reply string) (Measurement, error) {
	m := measurementReply.FindStringSubmatch(reply)
	if m == nil {
		return Measurement{}, &ReplyError{Reply: reply, Shape: "measurement"}
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return Measurement{}, &ReplyError{Reply: reply, Shape: "measurement", Err: err}
	}
	return Measurement{Value: v, Unit: m[2]}, nil
}

// ParseRange extracts the two ends of a "low~high<unit>" reply.
func ParseRange(reply string) (RangeMeasurement, error) {
	m := rangeReply.FindStringSubmatch(reply)
	if m == nil {
		return RangeMeasurement{}, &ReplyError{Reply: reply, Shape: "range"}
	}
	lo, err := strconv.Atoi(m[1])
	if err != nil {
		return RangeMeasurement{}, &ReplyError{Reply: reply, Shape: "range", Err: err}
	}
	hi, err := strconv.Atoi(m[2])
	if err != nil {
		return RangeMeasurement{}, &ReplyError{Reply: reply, Shape: "range", Err: err}
	}
	return RangeMeasurement{Low: lo, High: hi, Unit: m[3]}, nil
}

// ParseNumber converts a bare integer or decimal reply.
func ParseNumber(reply string) (float64, error) {
	v, err := parseDecimal(reply)
	if err != nil {
		return 0, &ReplyError{Reply: reply, Shape: "number", Err: err}
	}
	return v, nil
}

// ParseInteger converts a bare integer reply.
func ParseInteger(reply string) (int, error) {
	v, err := strconv.Atoi(reply)
	if err != nil {
		return 0, &ReplyError{Reply: reply, Shape: "integer", Err: err}
	}
	return v, nil
}

// ParseAttitude converts a "pitch:p;roll:r;yaw:y;" reply.
func ParseAttitude(reply string) (Attitude, error) {
	m := attitudeReply.FindStringSubmatch(reply)
	if m == nil {
		return Attitude{}, &ReplyError{Reply: reply, Shape: "attitude record"}
	}
	var a Attitude
	var err error
	for i, dst := range []*int{&a.Pitch, &a.Roll, &a.Yaw} {
		if *dst, err = strconv.Atoi(m[i+1]); err != nil {
			return Attitude{}, &ReplyError{Reply: reply, Shape: "attitude record", Err: err}
		}
	}
	return a, nil
}

// ParseAcceleration converts an "agx:x;agy:y;agz:z;" reply.
func ParseAcceleration(reply string) (Acceleration, error) {
	m := accelReply.FindStringSubmatch(reply)
	if m == nil {
		return Acceleration{}, &ReplyError{Reply: reply, Shape: "acceleration record"}
	}
	var a Acceleration
	var err error
	for i, dst := range []*float64{&a.X, &a.Y, &a.Z} {
		if *dst, err = parseDecimal(m[i+1]); err != nil {
			return Acceleration{}, &ReplyError{Reply: reply, Shape: "acceleration record", Err: err}
		}
	}
	return a, nil
}

// parseDecimal converts a plain decimal number, NaN, infinities and hex floats are refused.
func parseDecimal(s string) (float64, error) {
	if !decimalValue.MatchString(s) {
		return 0, errors.Errorf("%q is not a decimal number", s)
	}
	return strconv.ParseFloat(s, 64)
}
