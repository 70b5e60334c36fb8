package audio

import (
	"math"
	"testing"
)

func TestFloatsToBytes(t *testing.T) {
	src := []float32{0, 1, -1, 0.5}
	dst := make([]byte, len(src)*4)
	floatsToBytes(dst, src)

	for i, want := range src {
		bits := uint32(dst[4*i]) | uint32(dst[4*i+1])<<8 | uint32(dst[4*i+2])<<16 | uint32(dst[4*i+3])<<24
		if got := math.Float32frombits(bits); got != want {
			t.Errorf("sample %d = %g, want %g", i, got, want)
		}
	}
}

func TestPullReaderRendersBlocks(t *testing.T) {
	var rendered int
	r := &pullReader{render: func(buf []float32) {
		for i := range buf {
			buf[i] = 0.25
		}
		rendered += len(buf)
	}}

	p := make([]byte, 64)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 64 {
		t.Fatalf("Read returned %d, want 64", n)
	}
	if rendered != 16 {
		t.Fatalf("render got %d samples, want 16", rendered)
	}
	bits := uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
	if got := math.Float32frombits(bits); got != 0.25 {
		t.Errorf("first sample = %g, want 0.25", got)
	}
}

func TestPullReaderPartialSample(t *testing.T) {
	r := &pullReader{render: func(buf []float32) {}}
	p := make([]byte, 10)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 8 {
		t.Fatalf("Read returned %d, want 8 (whole samples only)", n)
	}
}

func TestHeadlessLifecycle(t *testing.T) {
	h := NewHeadless(Config{SampleRate: 44100, ChannelCount: 2})

	if err := h.Play(); err != ErrNotStarted {
		t.Fatalf("Play before Start = %v, want ErrNotStarted", err)
	}
	if err := h.Pause(); err != ErrNotStarted {
		t.Fatalf("Pause before Start = %v, want ErrNotStarted", err)
	}

	if err := h.Start(func(buf []float32) {
		for i := range buf {
			buf[i] = 1
		}
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !h.Playing() {
		t.Error("not playing after Start")
	}

	block := h.Pump(4)
	if len(block) != 8 {
		t.Fatalf("Pump(4) returned %d samples, want 8", len(block))
	}
	if block[0] != 1 {
		t.Errorf("render step not invoked: %v", block)
	}

	// Pause and Play are idempotent
	for i := 0; i < 2; i++ {
		if err := h.Pause(); err != nil {
			t.Fatalf("Pause: %v", err)
		}
	}
	if block := h.Pump(4); block[0] != 0 {
		t.Errorf("paused output produced samples: %v", block)
	}
	for i := 0; i < 2; i++ {
		if err := h.Play(); err != nil {
			t.Fatalf("Play: %v", err)
		}
	}
	if block := h.Pump(4); block[0] != 1 {
		t.Errorf("resumed output stayed silent: %v", block)
	}
}

func TestNewOutputRejectsNonStereo(t *testing.T) {
	if _, err := NewOutput(Config{SampleRate: 44100, ChannelCount: 1}); err == nil {
		t.Fatal("expected error for mono config")
	}
}
