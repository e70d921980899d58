// app.go

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

package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/peterh/liner"

	tello "github.com/SMerrony/tellosdk"
	"github.com/SMerrony/tellosdk/internal/flightdb"
)

// App is one CLI session with one drone.
type App struct {
	ctx       context.Context
	config    *Config
	logger    *slog.Logger
	out       io.Writer
	flightLog *tello.FlightLog
	drone     *tello.Tello
	store     *flightdb.Store
	sessionID int64

	recMu     sync.Mutex
	recCancel context.CancelFunc
	recDone   chan struct{}
	recorded  atomic.Int64
}

// Run connects to the drone, then executes args as a single command, or starts an interactive shell if there are none.
func Run(ctx context.Context, config *Config, args []string, logger *slog.Logger) error {
	a, err := New(ctx, config, logger, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) > 0 {
		return a.RunCommand(args[0], args[1:])
	}
	return a.Shell()
}

// New dials the drone and opens the flight recorder if one is configured.
func New(ctx context.Context, config *Config, logger *slog.Logger, out io.Writer) (*App, error) {
	level, err := config.Settings.Level()
	if err != nil {
		return nil, err
	}
	tc, err := config.TelloConfig()
	if err != nil {
		return nil, fmt.Errorf("drone configuration: %w", err)
	}

	var echo io.Writer
	if config.Log.Echo {
		echo = os.Stderr
	}
	a := &App{
		ctx:       ctx,
		config:    config,
		logger:    logger,
		out:       out,
		flightLog: tello.NewFlightLog(config.Log.Enabled, echo),
	}

	if config.Recording.Database != "" {
		a.store = flightdb.NewStore(config.Recording.Database)
		if a.sessionID, err = a.store.CreateSession(ctx, config.Drone.Address, config.Drone); err != nil {
			a.store.Close()
			return nil, fmt.Errorf("creating recording session: %w", err)
		}
		logger.Info("recording", slog.String("database", config.Recording.Database), slog.Int64("session", a.sessionID))
	}

	if a.drone, err = tello.Dial(tc, tello.WithLogger(a.flightLog.Logger(level))); err != nil {
		if a.store != nil {
			a.store.Close()
		}
		return nil, fmt.Errorf("connecting to drone at %s: %w", config.Drone.Address, err)
	}
	logger.Info("connected", slog.String("drone", config.Drone.Address))
	return a, nil
}

// Close stops recording, disconnects from the drone, and writes out the flight log.
func (a *App) Close() error {
	done := a.stopRecording()
	err := a.drone.Close()
	if done != nil {
		<-done
	}
	if a.config.Log.File != "" {
		if fErr := a.flushLog(a.config.Log.File); fErr != nil {
			a.logger.Error("writing flight log", slog.Any("err", fErr))
		}
	}
	if a.store != nil {
		if sErr := a.store.Close(); sErr != nil && err == nil {
			err = sErr
		}
	}
	return err
}

// RunCommand executes one CLI command.
func (a *App) RunCommand(name string, args []string) error {
	cmd, ok := cliCommands[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown command %q, try \"help\"", name)
	}
	if len(args) < cmd.MinArgs || len(args) > cmd.MaxArgs {
		return fmt.Errorf("usage: %s", cmd.Usage)
	}

	start := time.Now()
	reply, err := cmd.Handler(a, args)
	if cmd.Drone {
		a.journal(start, strings.Join(append([]string{cmd.Name}, args...), " "), reply, err)
	}
	if err != nil {
		return err
	}
	if reply != "" {
		fmt.Fprintln(a.out, reply)
	}
	return nil
}

func (a *App) journal(ts time.Time, command, reply string, cmdErr error) {
	if a.store == nil {
		return
	}
	if _, err := a.store.StoreCommand(a.ctx, a.sessionID, ts, command, reply, cmdErr); err != nil {
		a.logger.Warn("journaling command", slog.String("command", command), slog.Any("err", err))
	}
}

// Shell runs the interactive command loop until quit, ^C or ^D.
func (a *App) Shell() error {
	shell := liner.NewLiner()
	defer shell.Close()

	shell.SetCtrlCAborts(true)
	shell.SetCompleter(func(line string) (c []string) {
		for name := range cliCommands {
			if strings.HasPrefix(name, strings.ToLower(line)) {
				c = append(c, name)
			}
		}
		return
	})

	historyFile := a.config.Settings.HistoryFile
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			shell.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprintln(a.out, "Interactive mode, type \"help\" for commands, Ctrl-D to quit.")
	for a.ctx.Err() == nil {
		input, err := shell.Prompt("tello> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(a.out)
			break
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		shell.AppendHistory(input)

		if input == "quit" || input == "exit" {
			break
		}
		tokens := strings.Fields(input)
		if err = a.RunCommand(tokens[0], tokens[1:]); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}

	if historyFile != "" {
		if f, err := os.Create(historyFile); err == nil {
			shell.WriteHistory(f)
			f.Close()
		}
	}
	return nil
}

// startRecording streams telemetry into the flight recorder until stopRecording is called.
func (a *App) startRecording() error {
	if a.store == nil {
		return fmt.Errorf("recording is not configured, set recording.database")
	}
	a.recMu.Lock()
	defer a.recMu.Unlock()
	if a.recCancel != nil {
		return fmt.Errorf("already recording")
	}

	ctx, cancel := context.WithCancel(a.ctx)
	states, err := a.drone.StreamState(ctx)
	if err != nil {
		cancel()
		return err
	}
	a.recCancel = cancel
	a.recDone = make(chan struct{})
	a.recorded.Store(0)

	go func(done chan struct{}) {
		defer close(done)
		for s := range states {
			if _, err := a.store.StoreState(a.ctx, a.sessionID, time.Now(), s); err != nil {
				a.logger.Warn("recording state", slog.Any("err", err))
				continue
			}
			a.recorded.Add(1)
		}
	}(a.recDone)
	return nil
}

// stopRecording cancels the telemetry stream and returns a channel closed once the last state is stored,
// or nil if nothing was being recorded.
func (a *App) stopRecording() <-chan struct{} {
	a.recMu.Lock()
	defer a.recMu.Unlock()
	if a.recCancel == nil {
		return nil
	}
	a.recCancel()
	done := a.recDone
	a.recCancel, a.recDone = nil, nil
	return done
}

func (a *App) flushLog(path string) error {
	if err := a.flightLog.Flush(path); err != nil {
		return err
	}
	a.logger.Info("flight log written", slog.String("path", path), slog.String("size", humanize.Bytes(uint64(a.flightLog.Len()))))
	return nil
}
