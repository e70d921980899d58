// commands.go

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
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	tello "github.com/SMerrony/tellosdk"
)

// CLICommand is one entry of the command table.
type CLICommand struct {
	Name        string
	Usage       string
	MinArgs     int
	MaxArgs     int
	Drone       bool // journaled in the flight recorder
	Handler     func(a *App, args []string) (string, error)
	Description string
}

var flipDirections = map[string]tello.FlipType{
	"f": tello.FlipForward,
	"b": tello.FlipBackward,
	"l": tello.FlipLeft,
	"r": tello.FlipRight,
}

func intArgs(args []string) ([]int, error) {
	vals := make([]int, len(args))
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", arg)
		}
		vals[i] = v
	}
	return vals, nil
}

// simple builds a command that takes no arguments.
func simple(name, description string, fn func(*tello.Tello) (string, error)) CLICommand {
	return CLICommand{
		Name: name, Usage: name, Drone: true,
		Handler:     func(a *App, args []string) (string, error) { return fn(a.drone) },
		Description: description,
	}
}

// distance builds a command that takes one integer argument.
func distance(name, unit, description string, fn func(*tello.Tello, int) (string, error)) CLICommand {
	return CLICommand{
		Name: name, Usage: name + " <" + unit + ">", MinArgs: 1, MaxArgs: 1, Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := intArgs(args)
			if err != nil {
				return "", err
			}
			return fn(a.drone, v[0])
		},
		Description: description,
	}
}

var cliCommands = map[string]CLICommand{
	// Flight commands
	"takeoff":   simple("takeoff", "Take off", (*tello.Tello).TakeOff),
	"land":      simple("land", "Land", (*tello.Tello).Land),
	"emergency": simple("emergency", "Stop the motors immediately", (*tello.Tello).Emergency),
	"hover":     simple("hover", "Centre the sticks and hover", (*tello.Tello).Hover),
	"streamon":  simple("streamon", "Start the video stream", (*tello.Tello).StartVideo),
	"streamoff": simple("streamoff", "Stop the video stream", (*tello.Tello).StopVideo),

	"forward": distance("forward", "cm", "Fly forward", (*tello.Tello).Forward),
	"back":    distance("back", "cm", "Fly backward", (*tello.Tello).Backward),
	"left":    distance("left", "cm", "Fly left", (*tello.Tello).Left),
	"right":   distance("right", "cm", "Fly right", (*tello.Tello).Right),
	"up":      distance("up", "cm", "Climb", (*tello.Tello).Up),
	"down":    distance("down", "cm", "Descend", (*tello.Tello).Down),
	"cw":      distance("cw", "degrees", "Rotate clockwise", (*tello.Tello).Clockwise),
	"ccw":     distance("ccw", "degrees", "Rotate anticlockwise", (*tello.Tello).Anticlockwise),
	"speed":   distance("speed", "cm/s", "Set the speed for movement commands", (*tello.Tello).SetSpeed),

	"flip": {
		Name: "flip", Usage: "flip <f|b|l|r>", MinArgs: 1, MaxArgs: 1, Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			dir, ok := flipDirections[strings.ToLower(args[0])]
			if !ok {
				return "", fmt.Errorf("invalid flip direction %q: use f, b, l or r", args[0])
			}
			return a.drone.Flip(dir)
		},
		Description: "Flip",
	},
	"go": {
		Name: "go", Usage: "go <x> <y> <z> <speed>", MinArgs: 4, MaxArgs: 4, Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := intArgs(args)
			if err != nil {
				return "", err
			}
			return a.drone.GoTo(v[0], v[1], v[2], v[3])
		},
		Description: "Fly to a position relative to the current one",
	},
	"curve": {
		Name: "curve", Usage: "curve <x1> <y1> <z1> <x2> <y2> <z2> <speed>", MinArgs: 7, MaxArgs: 7, Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := intArgs(args)
			if err != nil {
				return "", err
			}
			return a.drone.Curve(v[0], v[1], v[2], v[3], v[4], v[5], v[6])
		},
		Description: "Fly a curve through two points",
	},
	"rc": {
		Name: "rc", Usage: "rc <roll> <pitch> <throttle> <yaw>", MinArgs: 4, MaxArgs: 4, Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := intArgs(args)
			if err != nil {
				return "", err
			}
			return a.drone.RemoteControl(v[0], v[1], v[2], v[3])
		},
		Description: "Set the virtual sticks (-100..100)",
	},
	"wifi": {
		Name: "wifi", Usage: "wifi <ssid> <password>", MinArgs: 2, MaxArgs: 2, Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			return a.drone.SetWifi(args[0], args[1])
		},
		Description: "Change the drone's Wi-Fi name and password",
	},
	"raw": {
		Name: "raw", Usage: "raw <text...>", MinArgs: 1, MaxArgs: 20, Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			return a.drone.Command(strings.Join(args, " "))
		},
		Description: "Send text to the drone unaltered",
	},

	// Queries
	"speed?": {
		Name: "speed?", Usage: "speed?", Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := a.drone.Speed()
			return fmt.Sprintf("%.1f cm/s", v), err
		},
		Description: "Show the speed setting",
	},
	"battery?": {
		Name: "battery?", Usage: "battery?", Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := a.drone.Battery()
			return fmt.Sprintf("%d%%", v), err
		},
		Description: "Show the battery level",
	},
	"time?": {
		Name: "time?", Usage: "time?", Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := a.drone.FlightTime()
			return fmt.Sprintf("%d s", v), err
		},
		Description: "Show the motor running time",
	},
	"height?": {
		Name: "height?", Usage: "height?", Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := a.drone.Height()
			return strconv.Itoa(v), err
		},
		Description: "Show the height",
	},
	"tof?": {
		Name: "tof?", Usage: "tof?", Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := a.drone.DistanceFromTakeoff()
			return strconv.Itoa(v), err
		},
		Description: "Show the time-of-flight distance",
	},
	"temp?": {
		Name: "temp?", Usage: "temp?", Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := a.drone.Temperature()
			return fmt.Sprintf("%.1f C", v), err
		},
		Description: "Show the average temperature",
	},
	"attitude?": {
		Name: "attitude?", Usage: "attitude?", Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := a.drone.Attitude()
			return fmt.Sprintf("pitch %d, roll %d, yaw %d", v.Pitch, v.Roll, v.Yaw), err
		},
		Description: "Show pitch, roll and yaw",
	},
	"baro?": {
		Name: "baro?", Usage: "baro?", Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := a.drone.Barometer()
			return fmt.Sprintf("%.2f", v), err
		},
		Description: "Show the barometer reading",
	},
	"acceleration?": {
		Name: "acceleration?", Usage: "acceleration?", Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := a.drone.Acceleration()
			return fmt.Sprintf("x %.2f, y %.2f, z %.2f", v.X, v.Y, v.Z), err
		},
		Description: "Show the acceleration",
	},
	"wifi?": {
		Name: "wifi?", Usage: "wifi?", Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			v, err := a.drone.WifiSNR()
			return strconv.Itoa(v), err
		},
		Description: "Show the Wi-Fi signal to noise ratio",
	},

	// Telemetry, video and logging
	"state": {
		Name: "state", Usage: "state",
		Handler: func(a *App, args []string) (string, error) {
			s, err := a.drone.State()
			if err != nil {
				return "", err
			}
			return formatState(s), nil
		},
		Description: "Show the next telemetry record",
	},
	"record": {
		Name: "record", Usage: "record <on|off>", MinArgs: 1, MaxArgs: 1,
		Handler: func(a *App, args []string) (string, error) {
			switch args[0] {
			case "on":
				if err := a.startRecording(); err != nil {
					return "", err
				}
				return "recording telemetry", nil
			case "off":
				done := a.stopRecording()
				if done == nil {
					return "", fmt.Errorf("not recording")
				}
				<-done
				return fmt.Sprintf("recorded %s states", humanize.Comma(a.recorded.Load())), nil
			default:
				return "", fmt.Errorf("invalid argument: use 'on' or 'off'")
			}
		},
		Description: "Record telemetry in the flight recorder",
	},
	"video": {
		Name: "video", Usage: "video <chunks> [file]", MinArgs: 1, MaxArgs: 2, Drone: true,
		Handler: func(a *App, args []string) (string, error) {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return "", fmt.Errorf("invalid chunk count %q", args[0])
			}
			return a.captureVideo(n, args[1:])
		},
		Description: "Receive raw H.264 chunks, optionally saving them",
	},
	"log": {
		Name: "log", Usage: "log <on|off>", MinArgs: 1, MaxArgs: 1,
		Handler: func(a *App, args []string) (string, error) {
			switch args[0] {
			case "on", "off":
				a.flightLog.SetEnabled(args[0] == "on")
				return "flight log " + args[0], nil
			default:
				return "", fmt.Errorf("invalid argument: use 'on' or 'off'")
			}
		},
		Description: "Turn the flight log on or off",
	},
	"flushlog": {
		Name: "flushlog", Usage: "flushlog [file]", MaxArgs: 1,
		Handler: func(a *App, args []string) (string, error) {
			path := a.config.Log.File
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return "", fmt.Errorf("no file given and log.file is not set")
			}
			if err := a.flushLog(path); err != nil {
				return "", err
			}
			return fmt.Sprintf("wrote %s to %s", humanize.Bytes(uint64(a.flightLog.Len())), path), nil
		},
		Description: "Write the flight log to a file",
	},
}

func init() {
	cliCommands["help"] = CLICommand{
		Name: "help", Usage: "help",
		Handler:     func(a *App, args []string) (string, error) { return helpText(), nil },
		Description: "List the commands",
	}
}

func helpText() string {
	names := make([]string, 0, len(cliCommands))
	for name := range cliCommands {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		c := cliCommands[name]
		fmt.Fprintf(&sb, "  %-44s %s\n", c.Usage, c.Description)
	}
	sb.WriteString("  quit                                         Leave the shell")
	return sb.String()
}

func formatState(s tello.State) string {
	return fmt.Sprintf("attitude %d/%d/%d  velocity %d/%d/%d  temp %.1f C  tof %d  height %d  battery %d%%  baro %.2f  time %d s  accel %.2f/%.2f/%.2f",
		s.Attitude.Pitch, s.Attitude.Roll, s.Attitude.Yaw,
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
		s.AverageTemperature, s.DistanceFromTakeoff, s.Height, s.Battery, s.Barometer, s.FlightTime,
		s.Acceleration.X, s.Acceleration.Y, s.Acceleration.Z)
}

// captureVideo receives n chunks from the video link, writing them to args[0] if given.
func (a *App) captureVideo(n int, args []string) (summary string, err error) {
	var f *os.File
	if len(args) == 1 {
		if f, err = os.Create(args[0]); err != nil {
			return "", fmt.Errorf("creating video file: %w", err)
		}
		defer func() {
			if cErr := f.Close(); cErr != nil && err == nil {
				err = cErr
			}
		}()
	}

	var total uint64
	for i := 0; i < n; i++ {
		chunk, err := a.drone.VideoChunk(tello.DefaultVideoChunkSize)
		if err != nil {
			return "", fmt.Errorf("after %d chunks: %w", i, err)
		}
		total += uint64(len(chunk))
		if f != nil {
			if _, err = f.Write(chunk); err != nil {
				return "", fmt.Errorf("writing video file: %w", err)
			}
		}
	}
	return fmt.Sprintf("received %s in %s chunks", humanize.Bytes(total), humanize.Comma(int64(n))), nil
}
