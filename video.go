// video.go

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

	"github.com/pkg/errors"
)

// DefaultVideoChunkSize is large enough for any single video datagram from the drone.
const DefaultVideoChunkSize = 2048

// StartVideo asks the Tello to start sending video to the video port.
func (tello *Tello) StartVideo() (string, error) {
	return tello.Command("streamon")
}

// StopVideo asks the Tello to stop sending video.
func (tello *Tello) StopVideo() (string, error) {
	return tello.Command("streamoff")
}

// VideoChunk returns the next raw datagram (part of an H.264 stream) from the video link.
// No framing is done; the bytes are exactly as received.
func (tello *Tello) VideoChunk(maxSize int) ([]byte, error) {
	return tello.video.ReceiveData(maxSize)
}

// StreamVideo starts a Goroutine which sends raw video chunks to the returned channel
// until ctx is done or the Tello is closed.  Chunks are dropped rather than blocking if the channel is full.
func (tello *Tello) StreamVideo(ctx context.Context) (<-chan []byte, error) {
	tello.streamMu.Lock()
	if tello.videoStreaming {
		tello.streamMu.Unlock()
		return nil, errors.New("tello: already streaming video from this Tello")
	}
	tello.videoStreaming = true
	tello.streamMu.Unlock()

	videoChan := make(chan []byte, 100)
	go func() {
		defer func() {
			tello.streamMu.Lock()
			tello.videoStreaming = false
			tello.streamMu.Unlock()
			close(videoChan)
		}()
		for ctx.Err() == nil {
			chunk, err := tello.VideoChunk(DefaultVideoChunkSize)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if err != nil {
				tello.logger.Debug("video", slog.Any("err", err))
				continue
			}
			select {
			case videoChan <- chunk:
			default: // so we don't block
			}
		}
	}()
	return videoChan, nil
}
