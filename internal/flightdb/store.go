// store.go

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

// Package flightdb records drone sessions, telemetry and the command journal in a SQLite database.
package flightdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"

	tello "github.com/SMerrony/tellosdk"
)

// Store handles database operations
type Store struct {
	dbPath string

	db     *sql.DB
	dbOnce sync.Once
	dbErr  error

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewStore returns a Store for the database at dbPath; nothing is opened until the first call.
func NewStore(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getDB() (*sql.DB, error) {
	if s.closed.Load() {
		return nil, sql.ErrConnDone
	}
	s.dbOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"))
		if err != nil {
			s.dbErr = fmt.Errorf("opening database: %w", err)
			return
		}
		// the telemetry streamer and the command journal write from different goroutines
		db.SetMaxOpenConns(1)

		if _, err = db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			s.dbErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.db = db
	})

	return s.db, s.dbErr
}

// CreateSession starts a new recording session for drone.
// config may be nil, a string, a []byte, or anything encoding/json can marshal.
func (s *Store) CreateSession(ctx context.Context, drone string, config any) (sessionID int64, err error) {
	var configData sql.NullString

	switch c := config.(type) {
	case nil:
	case string:
		configData = sql.NullString{String: c, Valid: true}
	case []byte:
		configData = sql.NullString{String: string(c), Valid: true}
	default:
		var p []byte
		if p, err = json.Marshal(config); err != nil {
			err = fmt.Errorf("marshaling config: %w", err)
			return
		}
		configData = sql.NullString{String: string(p), Valid: true}
	}

	db, err := s.getDB()
	if err != nil {
		err = fmt.Errorf("getting connection: %w", err)
		return
	}

	result, err := db.ExecContext(ctx, insertSessionSQL, time.Now().UTC(), drone, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

// Session returns one session, the error wraps sql.ErrNoRows if there is no such session.
func (s *Store) Session(ctx context.Context, id int64) (*Session, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, fmt.Errorf("getting connection: %w", err)
	}

	var sess Session
	var config sql.NullString
	if err = db.QueryRowContext(ctx, selectSessionSQL, id).Scan(&sess.ID, &sess.StartTime, &sess.Drone, &config); err != nil {
		return nil, fmt.Errorf("scanning session %d: %w", id, err)
	}
	if config.Valid {
		sess.Config = &config.String
	}
	return &sess, nil
}

// Sessions returns every session, oldest first.
func (s *Store) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getDB()
	if err != nil {
		err = fmt.Errorf("getting connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sess Session
		var config sql.NullString
		if err = rows.Scan(&sess.ID, &sess.StartTime, &sess.Drone, &config); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		if config.Valid {
			sess.Config = &config.String
		}
		sessions = append(sessions, &sess)
	}
	err = rows.Err()
	return
}

// StoreState records one decoded telemetry record received at ts.
func (s *Store) StoreState(ctx context.Context, sessionID int64, ts time.Time, st tello.State) (stateID int64, err error) {
	db, err := s.getDB()
	if err != nil {
		err = fmt.Errorf("getting connection: %w", err)
		return
	}

	data := toStateData(sessionID, ts, st)
	result, err := db.ExecContext(
		ctx,
		insertStateSQL,
		data.SessionID,
		data.Timestamp,
		data.Pitch,
		data.Roll,
		data.Yaw,
		data.VelocityX,
		data.VelocityY,
		data.VelocityZ,
		data.TempLow,
		data.TempHigh,
		data.TOF,
		data.Height,
		data.Battery,
		data.Barometer,
		data.FlightTime,
		data.AccelX,
		data.AccelY,
		data.AccelZ,
	)
	if err != nil {
		err = fmt.Errorf("inserting state: %w", err)
		return
	}

	stateID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting state ID: %w", err)
	}
	return
}

// States returns the telemetry recorded for a session, in the order it was received.
func (s *Store) States(ctx context.Context, sessionID int64) (states []StateRecord, err error) {
	db, err := s.getDB()
	if err != nil {
		err = fmt.Errorf("getting connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectStatesSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying states: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var d stateData
		if err = rows.Scan(
			&d.ID,
			&d.SessionID,
			&d.Timestamp,
			&d.Pitch,
			&d.Roll,
			&d.Yaw,
			&d.VelocityX,
			&d.VelocityY,
			&d.VelocityZ,
			&d.TempLow,
			&d.TempHigh,
			&d.TOF,
			&d.Height,
			&d.Battery,
			&d.Barometer,
			&d.FlightTime,
			&d.AccelX,
			&d.AccelY,
			&d.AccelZ,
		); err != nil {
			err = fmt.Errorf("scanning state: %w", err)
			return
		}
		states = append(states, fromStateData(&d))
	}
	err = rows.Err()
	return
}

// StoreCommand journals one command with its reply, or with the error that prevented a reply.
func (s *Store) StoreCommand(ctx context.Context, sessionID int64, ts time.Time, command, reply string, cmdErr error) (commandID int64, err error) {
	db, err := s.getDB()
	if err != nil {
		err = fmt.Errorf("getting connection: %w", err)
		return
	}

	var replyData, errData sql.NullString
	if cmdErr != nil {
		errData = sql.NullString{String: cmdErr.Error(), Valid: true}
	} else {
		replyData = sql.NullString{String: reply, Valid: true}
	}

	result, err := db.ExecContext(ctx, insertCommandSQL, sessionID, ts.UTC(), command, replyData, errData)
	if err != nil {
		err = fmt.Errorf("inserting command: %w", err)
		return
	}

	commandID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting command ID: %w", err)
	}
	return
}

// Commands returns the command journal of a session, in the order the commands were sent.
func (s *Store) Commands(ctx context.Context, sessionID int64) (commands []CommandRecord, err error) {
	db, err := s.getDB()
	if err != nil {
		err = fmt.Errorf("getting connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectCommandsSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying commands: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var c CommandRecord
		var reply, errText sql.NullString
		if err = rows.Scan(&c.ID, &c.SessionID, &c.Timestamp, &c.Command, &reply, &errText); err != nil {
			err = fmt.Errorf("scanning command: %w", err)
			return
		}
		c.Reply = reply.String
		if errText.Valid {
			c.Error = &errText.String
		}
		commands = append(commands, c)
	}
	err = rows.Err()
	return
}

// Close closes the database; it is safe to call more than once.
// Every later call fails with an error wrapping sql.ErrConnDone.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		// a Store that was never used must not open the database afterwards
		s.dbOnce.Do(func() {})
		if s.db != nil {
			s.closeErr = s.db.Close()
		}
	})

	return s.closeErr
}
