// telemetry_test.go

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
	"errors"
	"strings"
	"testing"
)

const sampleState = "pitch:0;roll:1;yaw:2;vgx:0;vgy:0;vgz:0;templ:20;temph:24;tof:10;h:100;bat:88;baro:10.5;time:30;agx:0.1;agy:0.2;agz:9.8;"

func TestDecodeState(t *testing.T) {
	s, err := DecodeState(sampleState)
	if err != nil {
		t.Fatalf("DecodeState failed with error %v", err)
	}
	want := State{
		Attitude:            Attitude{Pitch: 0, Roll: 1, Yaw: 2},
		Velocity:            Velocity{},
		LowTemperature:      20,
		HighTemperature:     24,
		AverageTemperature:  22.0,
		DistanceFromTakeoff: 10,
		Height:              100,
		Battery:             88,
		Barometer:           10.5,
		FlightTime:          30,
		Acceleration:        Acceleration{X: 0.1, Y: 0.2, Z: 9.8},
	}
	if s != want {
		t.Errorf("Expected %+v\n got %+v", want, s)
	}
}

func TestDecodeStateTrailingWhitespace(t *testing.T) {
	s, err := DecodeState(sampleState + "\r\n")
	if err != nil {
		t.Fatalf("DecodeState failed with error %v", err)
	}
	if s.Battery != 88 {
		t.Errorf("Expected battery 88, got %d", s.Battery)
	}
}

func TestDecodeStateNegativeValues(t *testing.T) {
	rec := "pitch:-3;roll:-1;yaw:-170;vgx:-5;vgy:2;vgz:-1;templ:60;temph:63;tof:-1;h:0;bat:12;baro:-23.67;time:0;agx:-12.00;agy:3.00;agz:-998.00;"
	s, err := DecodeState(rec)
	if err != nil {
		t.Fatalf("DecodeState failed with error %v", err)
	}
	if s.Attitude.Yaw != -170 || s.Velocity.X != -5 || s.Barometer != -23.67 || s.Acceleration.Z != -998 {
		t.Errorf("Negative values decoded wrongly: %+v", s)
	}
	if s.AverageTemperature != 61.5 {
		t.Errorf("Expected average temperature 61.5, got %f", s.AverageTemperature)
	}
}

func TestDecodeStateGrammarErrors(t *testing.T) {
	bad := []string{
		"",
		"ok",
		strings.Replace(sampleState, "roll:1;", "", 1),                        // missing key
		strings.Replace(sampleState, "pitch:0;roll:1;", "roll:1;pitch:0;", 1), // reordered
		strings.TrimSuffix(sampleState, ";"),                                  // missing final delimiter
		strings.Replace(sampleState, "bat:88;", "bat=88;", 1),                 // wrong separator
		sampleState + "mid:1;",                                                // extra key
	}
	for _, rec := range bad {
		_, err := DecodeState(rec)
		if !errors.Is(err, ErrTelemetryGrammar) {
			t.Errorf("Expected ErrTelemetryGrammar for %q, got %v", rec, err)
		}
	}
}

func TestDecodeStateMalformedValue(t *testing.T) {
	rec := strings.Replace(sampleState, "bat:88;", "bat:lots;", 1)
	_, err := DecodeState(rec)
	if !errors.Is(err, ErrMalformedTelemetry) {
		t.Fatalf("Expected ErrMalformedTelemetry, got %v", err)
	}
	var te *TelemetryError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TelemetryError, got %T", err)
	}
	if te.Field != "bat" || te.Value != "lots" {
		t.Errorf("Expected field bat with value lots, got %s %q", te.Field, te.Value)
	}

	// an empty value is malformed, not a grammar error
	rec = strings.Replace(sampleState, "h:100;", "h:;", 1)
	if _, err = DecodeState(rec); !errors.Is(err, ErrMalformedTelemetry) {
		t.Errorf("Expected ErrMalformedTelemetry for empty value, got %v", err)
	}
}

func TestDecodeStateRejectsNonFinite(t *testing.T) {
	cases := map[string]string{
		"baro": strings.Replace(sampleState, "baro:10.5;", "baro:NaN;", 1),
		"agx":  strings.Replace(sampleState, "agx:0.1;", "agx:Inf;", 1),
		"agz":  strings.Replace(sampleState, "agz:9.8;", "agz:0x1p3;", 1),
	}
	for field, rec := range cases {
		_, err := DecodeState(rec)
		var te *TelemetryError
		if !errors.As(err, &te) || !errors.Is(err, ErrMalformedTelemetry) {
			t.Errorf("Expected ErrMalformedTelemetry for %s, got %v", field, err)
			continue
		}
		if te.Field != field {
			t.Errorf("Expected field %s, got %s", field, te.Field)
		}
	}
}
