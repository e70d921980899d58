// sql.go

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
	_ "embed"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      drone,
                      config)
VALUES (?, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    drone,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    start_time,
    drone,
    config
FROM sessions
ORDER BY id`

	insertStateSQL = `
INSERT INTO states (session_id,
                    timestamp,
                    pitch,
                    roll,
                    yaw,
                    vgx,
                    vgy,
                    vgz,
                    templ,
                    temph,
                    tof,
                    height,
                    battery,
                    baro,
                    flight_time,
                    agx,
                    agy,
                    agz)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectStatesSQL = `
SELECT id,
       session_id,
       timestamp,
       pitch,
       roll,
       yaw,
       vgx,
       vgy,
       vgz,
       templ,
       temph,
       tof,
       height,
       battery,
       baro,
       flight_time,
       agx,
       agy,
       agz
FROM states
WHERE session_id = ?
ORDER BY id`

	insertCommandSQL = `
INSERT INTO commands (session_id,
                      timestamp,
                      command,
                      reply,
                      error)
VALUES (?, ?, ?, ?, ?)`

	selectCommandsSQL = `
SELECT id,
       session_id,
       timestamp,
       command,
       reply,
       error
FROM commands
WHERE session_id = ?
ORDER BY id`
)

//go:embed schema.sql
var schemaSQL string
