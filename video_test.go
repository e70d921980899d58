// video_test.go

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
	"bytes"
	"context"
	"testing"
	"time"
)

func TestVideoChunk(t *testing.T) {
	fd := newFakeDrone(t, nil)
	drone := dialTest(t, testConfig(fd))

	if reply, err := drone.StartVideo(); err != nil || reply != "ok" {
		t.Fatalf("StartVideo: expected ok, got %q (%v)", reply, err)
	}
	if got := fd.commands(); !contains(got, "streamon") {
		t.Errorf("Expected streamon to be sent, got %q", got)
	}

	// binary data, with leading and trailing bytes that would be stripped from a reply
	frame := []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0x20, 0x0a, 0x00}
	fd.push(t, drone.video.Conn().LocalEndpoint(), frame)
	chunk, err := drone.VideoChunk(DefaultVideoChunkSize)
	if err != nil {
		t.Fatalf("VideoChunk failed with error %v", err)
	}
	if !bytes.Equal(chunk, frame) {
		t.Errorf("Expected % x, got % x", frame, chunk)
	}

	if _, err := drone.StopVideo(); err != nil {
		t.Errorf("StopVideo failed with error %v", err)
	}
}

func TestStreamVideo(t *testing.T) {
	fd := newFakeDrone(t, nil)
	drone := dialTest(t, testConfig(fd))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vc, err := drone.StreamVideo(ctx)
	if err != nil {
		t.Fatalf("StreamVideo failed with error %v", err)
	}
	if _, err = drone.StreamVideo(ctx); err == nil {
		t.Error("Expected a second StreamVideo to be refused")
	}

	fd.push(t, drone.video.Conn().LocalEndpoint(), []byte{1, 2, 3})
	select {
	case chunk := <-vc:
		if !bytes.Equal(chunk, []byte{1, 2, 3}) {
			t.Errorf("Unexpected chunk % x", chunk)
		}
	case <-time.After(testTimeout):
		t.Fatal("Timed out waiting for video")
	}

	drone.Close()
	deadline := time.After(testTimeout)
	for {
		select {
		case _, ok := <-vc:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Expected the video channel to be closed after Close")
		}
	}
}
