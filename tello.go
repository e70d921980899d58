// tello.go

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
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultTelloAddr        = "192.168.10.1"
	defaultTelloControlPort = 8889
	defaultLocalAddr        = "0.0.0.0"
	defaultLocalControlPort = 9000
	defaultLocalStatePort   = 8890
	defaultLocalVideoPort   = 11111
	defaultTimeout          = 12 * time.Second
)

const stateRecordSize = 512 // a state record is ~150 bytes

// Config holds the addresses and policies used by Dial.
type Config struct {
	DroneAddr   string        // the drone's IP address
	DronePort   int           // the drone's command port
	LocalAddr   string        // local address all three links bind to
	ControlPort int           // local port for commands and replies
	StatePort   int           // local port the drone streams telemetry to
	VideoPort   int           // local port the drone streams video to
	Timeout     time.Duration // applies to every send and receive
	LandOnExit  bool          // land in Close if the drone has flown since Dial
}

// DefaultConfig returns the addresses and ports used by a Tello on its own Wi-Fi network.
func DefaultConfig() Config {
	return Config{
		DroneAddr:   defaultTelloAddr,
		DronePort:   defaultTelloControlPort,
		LocalAddr:   defaultLocalAddr,
		ControlPort: defaultLocalControlPort,
		StatePort:   defaultLocalStatePort,
		VideoPort:   defaultLocalVideoPort,
		Timeout:     defaultTimeout,
	}
}

// Option configures a Tello in Dial.
type Option func(*Tello)

// WithLogger sets the logger used by the Tello and its links.
func WithLogger(logger *slog.Logger) Option {
	return func(tello *Tello) {
		tello.logger = logger
	}
}

// Tello holds the three links to one drone: control, state (telemetry) and video.
type Tello struct {
	cfg             Config
	logger          *slog.Logger
	ctrl            *Commander
	state           *Commander
	video           *Commander
	startFlightTime int // flight time seen by Dial, for LandOnExit

	streamMu       sync.Mutex // protects the streaming flags
	stateStreaming bool
	videoStreaming bool

	closeOnce sync.Once
	closeErr  error
}

// Dial opens the control, state and video links to a Tello and puts it into SDK mode.
// All links are closed again if any step fails.
func Dial(cfg Config, options ...Option) (*Tello, error) {
	tello := &Tello{cfg: cfg, logger: discardLogger()}
	for _, option := range options {
		option(tello)
	}

	drone := Endpoint{Host: cfg.DroneAddr, Port: cfg.DronePort}
	links := []struct {
		name string
		port int
		cmdr **Commander
	}{
		{"control", cfg.ControlPort, &tello.ctrl},
		{"state", cfg.StatePort, &tello.state},
		{"video", cfg.VideoPort, &tello.video},
	}
	for _, l := range links {
		conn, err := OpenConn(Endpoint{Host: cfg.LocalAddr, Port: l.port}, drone, cfg.Timeout,
			tello.logger.With(slog.String("link", l.name)))
		if err != nil {
			tello.closeLinks()
			return nil, errors.Wrapf(err, "tello: opening %s link", l.name)
		}
		*l.cmdr = NewCommander(conn)
	}

	reply, err := tello.ctrl.SendCommand("command")
	if err != nil {
		tello.closeLinks()
		return nil, errors.Wrap(err, "tello: entering SDK mode")
	}
	if reply != "ok" {
		tello.closeLinks()
		return nil, errors.Errorf("tello: entering SDK mode: drone replied %q", reply)
	}

	if cfg.LandOnExit {
		if tello.startFlightTime, err = tello.FlightTime(); err != nil {
			tello.closeLinks()
			return nil, err
		}
	}
	tello.logger.Info("connected", slog.String("drone", drone.String()))
	return tello, nil
}

// Close lands the drone if LandOnExit is set and it has flown since Dial, then closes all links.
// Landing is best-effort; only errors closing the links are returned.
func (tello *Tello) Close() error {
	tello.closeOnce.Do(func() {
		if tello.cfg.LandOnExit {
			tello.bestEffort("land on exit", tello.landIfFlown)
		}
		tello.closeErr = tello.closeLinks()
	})
	return tello.closeErr
}

func (tello *Tello) landIfFlown() error {
	ft, err := tello.FlightTime()
	if err != nil {
		return err
	}
	if ft > tello.startFlightTime {
		_, err = tello.Land()
	}
	return err
}

// bestEffort runs fn and drops any error it returns, after logging it.
// Only teardown uses it: the links are released whatever happens.
func (tello *Tello) bestEffort(action string, fn func() error) {
	if err := fn(); err != nil {
		tello.logger.Debug("best-effort action failed", slog.String("action", action), slog.Any("err", err))
	}
}

func (tello *Tello) closeLinks() (err error) {
	for _, cmdr := range []*Commander{tello.ctrl, tello.state, tello.video} {
		if cmdr == nil {
			continue
		}
		if cErr := cmdr.Conn().Close(); cErr != nil && err == nil {
			err = cErr
		}
	}
	return err
}

// State reads the next telemetry datagram and decodes it.
func (tello *Tello) State() (State, error) {
	b, err := tello.state.ReceiveData(stateRecordSize)
	if err != nil {
		return State{}, err
	}
	return DecodeState(string(b))
}

// StreamState starts a Goroutine which sends each telemetry record to the returned channel
// until ctx is done or the Tello is closed.
// The channel is buffered but the streamer does not block on it, so unconsumed records are lost.
// Records that cannot be decoded are logged and skipped.
func (tello *Tello) StreamState(ctx context.Context) (<-chan State, error) {
	tello.streamMu.Lock()
	if tello.stateStreaming {
		tello.streamMu.Unlock()
		return nil, errors.New("tello: already streaming state from this Tello")
	}
	tello.stateStreaming = true
	tello.streamMu.Unlock()

	stateChan := make(chan State, 2)
	go func() {
		defer func() {
			tello.streamMu.Lock()
			tello.stateStreaming = false
			tello.streamMu.Unlock()
			close(stateChan)
		}()
		for ctx.Err() == nil {
			s, err := tello.State()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if err != nil {
				tello.logger.Warn("telemetry", slog.Any("err", err))
				continue
			}
			select {
			case stateChan <- s:
			default:
			}
		}
	}()
	return stateChan, nil
}

// *** Queries ***

func (tello *Tello) query(q string) (string, error) {
	reply, err := tello.ctrl.SendCommand(q)
	if err != nil {
		return "", errors.Wrapf(err, "tello: query %q", q)
	}
	return reply, nil
}

func (tello *Tello) logUnit(quantity, unit string) {
	tello.logger.Info("reply unit", slog.String("quantity", quantity), slog.String("unit", unit))
}

// Speed returns the speed setting in cm/s.
func (tello *Tello) Speed() (float64, error) {
	reply, err := tello.query("speed?")
	if err != nil {
		return 0, err
	}
	return ParseNumber(reply)
}

// Battery returns the remaining battery percentage.
func (tello *Tello) Battery() (int, error) {
	reply, err := tello.query("battery?")
	if err != nil {
		return 0, err
	}
	return ParseInteger(reply)
}

// FlightTime returns the time the motors have been running, in seconds.
func (tello *Tello) FlightTime() (int, error) {
	return tello.measurement("time?", "flight time")
}

// Height returns the height reported by the drone, in the unit it chooses (usually dm).
func (tello *Tello) Height() (int, error) {
	return tello.measurement("height?", "height")
}

// DistanceFromTakeoff returns the time-of-flight sensor distance.
func (tello *Tello) DistanceFromTakeoff() (int, error) {
	return tello.measurement("tof?", "distance from takeoff")
}

func (tello *Tello) measurement(q, quantity string) (int, error) {
	reply, err := tello.query(q)
	if err != nil {
		return 0, err
	}
	m, err := ParseMeasurement(reply)
	if err != nil {
		return 0, err
	}
	tello.logUnit(quantity, m.Unit)
	return m.Value, nil
}

// Temperature returns the midpoint of the drone's reported temperature range.
func (tello *Tello) Temperature() (float64, error) {
	reply, err := tello.query("temp?")
	if err != nil {
		return 0, err
	}
	r, err := ParseRange(reply)
	if err != nil {
		return 0, err
	}
	tello.logUnit("temperature", r.Unit)
	return r.Average(), nil
}

// Attitude returns the drone's pitch, roll and yaw.
func (tello *Tello) Attitude() (Attitude, error) {
	reply, err := tello.query("attitude?")
	if err != nil {
		return Attitude{}, err
	}
	return ParseAttitude(reply)
}

// Barometer returns the barometer reading.
func (tello *Tello) Barometer() (float64, error) {
	reply, err := tello.query("baro?")
	if err != nil {
		return 0, err
	}
	return ParseNumber(reply)
}

// Acceleration returns the IMU acceleration.
func (tello *Tello) Acceleration() (Acceleration, error) {
	reply, err := tello.query("acceleration?")
	if err != nil {
		return Acceleration{}, err
	}
	return ParseAcceleration(reply)
}

// WifiSNR returns the Wi-Fi signal to noise ratio.
func (tello *Tello) WifiSNR() (int, error) {
	reply, err := tello.query("wifi?")
	if err != nil {
		return 0, err
	}
	return ParseInteger(reply)
}
