// config.go

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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	tello "github.com/SMerrony/tellosdk"
)

// Config represents the main application configuration
type Config struct {
	Settings  Settings        `yaml:"settings"`
	Drone     DroneConfig     `yaml:"drone"`
	Log       LogConfig       `yaml:"log"`
	Recording RecordingConfig `yaml:"recording"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel    string `yaml:"logLevel"`
	HistoryFile string `yaml:"historyFile"`
}

// DroneConfig says where the drone is and how to talk to it
type DroneConfig struct {
	Address      string   `yaml:"address" json:"address"` // host:port of the drone's command port
	LocalAddress string   `yaml:"localAddress" json:"localAddress"`
	ControlPort  int      `yaml:"controlPort" json:"controlPort"`
	StatePort    int      `yaml:"statePort" json:"statePort"`
	VideoPort    int      `yaml:"videoPort" json:"videoPort"`
	Timeout      Duration `yaml:"timeout" json:"timeout"`
	LandOnExit   bool     `yaml:"landOnExit" json:"landOnExit"`
}

// LogConfig controls the flight log
type LogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Echo    bool   `yaml:"echo"` // copy flight log records to stderr
	File    string `yaml:"file"` // flushed here on exit and by "flushlog"
}

// RecordingConfig controls the SQLite flight recorder
type RecordingConfig struct {
	Database string `yaml:"database"` // empty disables recording
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	d := tello.DefaultConfig()
	return &Config{
		Settings: Settings{
			LogLevel:    "info",
			HistoryFile: ".tellocli_history",
		},
		Drone: DroneConfig{
			Address:      tello.Endpoint{Host: d.DroneAddr, Port: d.DronePort}.String(),
			LocalAddress: d.LocalAddr,
			ControlPort:  d.ControlPort,
			StatePort:    d.StatePort,
			VideoPort:    d.VideoPort,
			Timeout:      Duration(d.Timeout),
			LandOnExit:   true,
		},
		Log: LogConfig{
			Enabled: true,
		},
	}
}

// LoadConfig reads a YAML configuration file; anything it leaves out keeps its default.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	config := DefaultConfig()
	if err = yaml.Unmarshal(b, config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return config, nil
}

// Validate checks the values that cannot be checked by the YAML decoder.
func (c *Config) Validate() error {
	if _, err := c.Settings.Level(); err != nil {
		return err
	}
	if _, err := tello.ParseEndpoint(c.Drone.Address); err != nil {
		return err
	}
	if c.Drone.Timeout <= 0 {
		return errors.New("drone.timeout must be positive")
	}
	for name, port := range map[string]int{
		"drone.controlPort": c.Drone.ControlPort,
		"drone.statePort":   c.Drone.StatePort,
		"drone.videoPort":   c.Drone.VideoPort,
	} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%s %d is out of range", name, port)
		}
	}
	return nil
}

// Level returns the configured log level.
func (s Settings) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("settings.logLevel: %w", err)
	}
	return l, nil
}

// TelloConfig converts the drone section into the library's configuration.
func (c *Config) TelloConfig() (tello.Config, error) {
	drone, err := tello.ParseEndpoint(c.Drone.Address)
	if err != nil {
		return tello.Config{}, err
	}
	return tello.Config{
		DroneAddr:   drone.Host,
		DronePort:   drone.Port,
		LocalAddr:   c.Drone.LocalAddress,
		ControlPort: c.Drone.ControlPort,
		StatePort:   c.Drone.StatePort,
		VideoPort:   c.Drone.VideoPort,
		Timeout:     time.Duration(c.Drone.Timeout),
		LandOnExit:  c.Drone.LandOnExit,
	}, nil
}

// Duration is a time.Duration written as "12s", "500ms"... in configuration files.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	duration, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("app.Duration: failed to parse: %s", err)
	}

	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
