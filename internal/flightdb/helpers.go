// helpers.go

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

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func toStateData(sessionID int64, ts time.Time, st tello.State) *stateData {
	return &stateData{
		SessionID:  sessionID,
		Timestamp:  ts.UTC(),
		Pitch:      st.Attitude.Pitch,
		Roll:       st.Attitude.Roll,
		Yaw:        st.Attitude.Yaw,
		VelocityX:  st.Velocity.X,
		VelocityY:  st.Velocity.Y,
		VelocityZ:  st.Velocity.Z,
		TempLow:    st.LowTemperature,
		TempHigh:   st.HighTemperature,
		TOF:        st.DistanceFromTakeoff,
		Height:     st.Height,
		Battery:    st.Battery,
		Barometer:  st.Barometer,
		FlightTime: st.FlightTime,
		AccelX:     st.Acceleration.X,
		AccelY:     st.Acceleration.Y,
		AccelZ:     st.Acceleration.Z,
	}
}

func fromStateData(d *stateData) StateRecord {
	return StateRecord{
		ID:        d.ID,
		SessionID: d.SessionID,
		Timestamp: d.Timestamp,
		State: tello.State{
			Attitude:            tello.Attitude{Pitch: d.Pitch, Roll: d.Roll, Yaw: d.Yaw},
			Velocity:            tello.Velocity{X: d.VelocityX, Y: d.VelocityY, Z: d.VelocityZ},
			LowTemperature:      d.TempLow,
			HighTemperature:     d.TempHigh,
			AverageTemperature:  float64(d.TempLow+d.TempHigh) / 2,
			DistanceFromTakeoff: d.TOF,
			Height:              d.Height,
			Battery:             d.Battery,
			Barometer:           d.Barometer,
			FlightTime:          d.FlightTime,
			Acceleration:        tello.Acceleration{X: d.AccelX, Y: d.AccelY, Z: d.AccelZ},
		},
	}
}
