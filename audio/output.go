// Package audio owns the output device: it negotiates a stereo float32
// stream and pulls interleaved sample blocks from a caller-supplied render
// step once per hardware period.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Config is the negotiated output configuration. The pipeline supports
// exactly stereo 32-bit float; only the sample rate varies. Fixed for the
// lifetime of the stream.
type Config struct {
	SampleRate   int
	ChannelCount int
	BufferSize   time.Duration
}

// DefaultConfig returns the preferred device configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:   44100,
		ChannelCount: 2,
		BufferSize:   20 * time.Millisecond,
	}
}

// RenderFunc fills buf with the next interleaved stereo samples. It runs
// on the device's callback goroutine under a real-time deadline: no
// blocking, no file I/O, no per-event allocation.
type RenderFunc func(buf []float32)

// ErrNotStarted is returned by Play and Pause before Start.
var ErrNotStarted = errors.New("audio output not started")

// Output is a live connection to the audio output device.
type Output struct {
	cfg Config
	ctx *oto.Context

	mu     sync.Mutex
	player *oto.Player
}

// NewOutput opens the output device with the given configuration.
// Fails if the device cannot provide a stereo float32 stream.
func NewOutput(cfg Config) (*Output, error) {
	if cfg.ChannelCount != 2 {
		return nil, fmt.Errorf("unsupported channel count %d: output is stereo only", cfg.ChannelCount)
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.ChannelCount,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.BufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready
	return &Output{cfg: cfg, ctx: ctx}, nil
}

// SampleRate returns the negotiated sample rate in Hz.
func (o *Output) SampleRate() float64 {
	return float64(o.cfg.SampleRate)
}

// Start registers the render step and begins periodic invocation. The
// stream starts playing immediately.
func (o *Output) Start(render RenderFunc) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player != nil {
		return errors.New("audio output already started")
	}
	o.player = o.ctx.NewPlayer(&pullReader{render: render})
	o.player.Play()
	return nil
}

// Play resumes the stream. Idempotent.
func (o *Output) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return ErrNotStarted
	}
	o.player.Play()
	return nil
}

// Pause suspends the stream. Idempotent.
func (o *Output) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return ErrNotStarted
	}
	o.player.Pause()
	return nil
}

// Close tears the stream down.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	return err
}

// pullReader adapts the device's byte pulls to float32 block renders.
// The scratch buffer is reused across pulls; it only grows if the device
// asks for a larger block than any before.
type pullReader struct {
	render  RenderFunc
	samples []float32
}

func (r *pullReader) Read(p []byte) (int, error) {
	n := len(p) / 4 * 4
	numSamples := n / 4
	if len(r.samples) < numSamples {
		r.samples = make([]float32, numSamples)
	}
	samples := r.samples[:numSamples]
	r.render(samples)
	floatsToBytes(p[:n], samples)
	// Trailing bytes of a partial sample, if any, stay untouched; the
	// device will re-request them.
	return n, nil
}

func floatsToBytes(dst []byte, src []float32) {
	for i, s := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(s))
	}
}
