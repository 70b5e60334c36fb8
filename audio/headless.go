package audio

import "sync"

// Headless is an Output stand-in with no device behind it. The owner pumps
// the render step by hand, which makes the pipeline runnable in tests and
// on machines without audio hardware.
type Headless struct {
	cfg Config

	mu      sync.Mutex
	render  RenderFunc
	playing bool
}

// NewHeadless returns a device-less output with the given configuration.
func NewHeadless(cfg Config) *Headless {
	return &Headless{cfg: cfg}
}

func (h *Headless) SampleRate() float64 {
	return float64(h.cfg.SampleRate)
}

func (h *Headless) Start(render RenderFunc) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.render = render
	h.playing = true
	return nil
}

func (h *Headless) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.render == nil {
		return ErrNotStarted
	}
	h.playing = true
	return nil
}

func (h *Headless) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.render == nil {
		return ErrNotStarted
	}
	h.playing = false
	return nil
}

func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.render = nil
	h.playing = false
	return nil
}

// Playing reports whether the stream is active.
func (h *Headless) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Pump invokes the render step once for the given frame count and returns
// the rendered interleaved block. While paused it returns silence, like a
// suspended device stream.
func (h *Headless) Pump(frames int) []float32 {
	h.mu.Lock()
	render := h.render
	playing := h.playing
	h.mu.Unlock()

	buf := make([]float32, frames*h.cfg.ChannelCount)
	if render != nil && playing {
		render(buf)
	}
	return buf
}
