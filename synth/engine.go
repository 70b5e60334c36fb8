// Package synth owns the live synthesis state: the loaded sound bank, the
// preset grid it defines, and the mapping from musical events to rendered
// stereo samples.
package synth

import (
	"fmt"

	"github.com/benoitryder/pianote/midi"
)

// DefaultGain is deliberately loud; default SoundFont bank volumes are
// quiet. Callers are expected to apply an explicit gain right away.
const DefaultGain = 1.5

// Sample rates the SoundFont synthesizer accepts.
const (
	minSampleRate = 16000
	maxSampleRate = 192000
)

const renderScratch = 4096

// Preset describes one addressable instrument of the loaded bank.
type Preset struct {
	Bank    int // 0-127
	Program int // 0-127
	Name    string
}

// Engine turns a stream of events into interleaved stereo samples.
//
// It is not safe for concurrent use: the owner (the orchestrator) serializes
// access. RenderBlock and ApplyEvent are allocation-free so they can run on
// the audio path; LoadBank is the one long operation and belongs on a
// control thread.
type Engine struct {
	sampleRate float64
	gain       float32
	loader     BankLoader

	backend  Backend // nil when no bank is loaded
	bankPath string
	presets  []Preset
	active   [16]Preset // per-channel selection, valid while backend != nil

	left, right []float32
}

// New creates an engine rendering at the given sample rate, with the
// default loud gain. The rate must match the negotiated output
// configuration exactly or playback pitch is wrong.
func New(sampleRate float64) (*Engine, error) {
	return NewWithLoader(sampleRate, LoadSoundFont)
}

// NewWithLoader is New with a custom sound bank loader.
func NewWithLoader(sampleRate float64, loader BankLoader) (*Engine, error) {
	if sampleRate < minSampleRate || sampleRate > maxSampleRate {
		return nil, fmt.Errorf("unsupported sample rate %g: must be within [%d, %d]",
			sampleRate, minSampleRate, maxSampleRate)
	}
	return &Engine{
		sampleRate: sampleRate,
		gain:       DefaultGain,
		loader:     loader,
		left:       make([]float32, renderScratch),
		right:      make([]float32, renderScratch),
	}, nil
}

// SampleRate returns the rate the engine renders at.
func (e *Engine) SampleRate() float64 {
	return e.sampleRate
}

// Loader returns the engine's bank loader, so owners can run the load
// phase on a control thread and install the result separately.
func (e *Engine) Loader() BankLoader {
	return e.loader
}

// LoadBank replaces the active sound bank with the one at path and rebuilds
// the preset set by probing the full 128x128 bank/program grid. On failure
// the engine is left with no bank loaded, never a partial one.
//
// This does file I/O and large allocations; call it from a control thread.
func (e *Engine) LoadBank(path string) error {
	e.UnloadBank()
	backend, err := e.loader(path, e.sampleRate)
	if err != nil {
		return &BankLoadError{Path: path, Err: err}
	}
	e.InstallBank(path, backend, ProbePresets(backend))
	return nil
}

// ProbePresets enumerates the presets a backend defines by probing every
// bank/program pair.
func ProbePresets(b Backend) []Preset {
	var presets []Preset
	for bank := 0; bank < 128; bank++ {
		for prog := 0; prog < 128; prog++ {
			if name, ok := b.Preset(bank, prog); ok {
				presets = append(presets, Preset{Bank: bank, Program: prog, Name: name})
			}
		}
	}
	return presets
}

// InstallBank atomically adopts an already-built backend and its preset
// set. Split from LoadBank so the orchestrator can run the load off the
// audio lock and only swap under it.
func (e *Engine) InstallBank(path string, b Backend, presets []Preset) {
	e.backend = b
	e.bankPath = path
	e.presets = presets
	for ch := range e.active {
		e.active[ch] = Preset{}
	}
}

// UnloadBank drops the active bank and its presets. Sounding notes are cut
// abruptly, which is acceptable for a control operation.
func (e *Engine) UnloadBank() {
	e.backend = nil
	e.bankPath = ""
	e.presets = nil
}

// BankPath returns the path of the loaded bank, or "" if none.
func (e *Engine) BankPath() string {
	return e.bankPath
}

// Presets returns the presets defined by the loaded bank. The slice is
// shared; callers must not modify it.
func (e *Engine) Presets() []Preset {
	return e.presets
}

// ApplyEvent routes one event to the backend. Events with no backend
// primitive are ignored, matching MIDI tolerance for unknown messages.
// Returns an error only for parameter combinations no backend can accept.
func (e *Engine) ApplyEvent(ev midi.Event) error {
	if ev.Type != midi.Reset {
		if ev.Channel > 15 {
			return &EventError{Reason: fmt.Sprintf("channel %d out of range", ev.Channel)}
		}
		if ev.Key > 127 || ev.Value > 127 || ev.Bend > 16383 {
			return &EventError{Reason: "data value out of range"}
		}
	}
	if e.backend == nil {
		return nil
	}

	ch := int(ev.Channel)
	switch ev.Type {
	case midi.NoteOn:
		e.backend.NoteOn(ch, int(ev.Key), int(ev.Value))
	case midi.NoteOff:
		e.backend.NoteOff(ch, int(ev.Key))
	case midi.KeyPressure:
		e.backend.KeyPressure(ch, int(ev.Key), int(ev.Value))
	case midi.ControlChange:
		e.backend.ControlChange(ch, int(ev.Key), int(ev.Value))
	case midi.ProgramChange:
		e.backend.ProgramChange(ch, int(ev.Value))
		e.active[ch].Program = int(ev.Value)
	case midi.ChannelPressure:
		e.backend.ChannelPressure(ch, int(ev.Value))
	case midi.PitchBend:
		e.backend.PitchBend(ch, int(ev.Bend))
	case midi.Reset:
		e.backend.Reset()
		for i := range e.active {
			e.active[i] = Preset{}
		}
	}
	return nil
}

// SetGain sets the output gain, effective from the next rendered block.
// No clamping; the backend may clamp internally.
func (e *Engine) SetGain(gain float32) {
	e.gain = gain
}

// Gain returns the current output gain.
func (e *Engine) Gain() float32 {
	return e.gain
}

// SelectPreset assigns the given preset to a channel. The pair must be in
// the loaded bank's preset set; otherwise the channel's selection is left
// unchanged.
func (e *Engine) SelectPreset(channel, bank, program int) error {
	if channel < 0 || channel > 15 {
		return &EventError{Reason: fmt.Sprintf("channel %d out of range", channel)}
	}
	if e.backend == nil {
		return ErrNoActiveBank
	}
	name, ok := e.backend.Preset(bank, program)
	if !ok {
		return fmt.Errorf("%w: bank %d program %d", ErrUnknownPreset, bank, program)
	}
	e.backend.ControlChange(channel, 0, bank) // bank select MSB
	e.backend.ProgramChange(channel, program)
	e.active[channel] = Preset{Bank: bank, Program: program, Name: name}
	return nil
}

// ActivePreset returns the preset currently assigned to a channel.
func (e *Engine) ActivePreset(channel int) (bank, program int) {
	if channel < 0 || channel > 15 {
		return 0, 0
	}
	return e.active[channel].Bank, e.active[channel].Program
}

// RenderBlock fills buf with the next interleaved stereo samples and
// advances synthesis time by len(buf)/2 frames. With no bank loaded it
// renders silence. Allocation-free except when a block exceeds every
// previous block size.
func (e *Engine) RenderBlock(buf []float32) error {
	frames := len(buf) / 2
	if e.backend == nil {
		clear(buf)
		return nil
	}
	if frames > len(e.left) {
		e.left = make([]float32, frames)
		e.right = make([]float32, frames)
	}
	left := e.left[:frames]
	right := e.right[:frames]
	e.backend.Render(left, right)

	gain := e.gain
	for i := 0; i < frames; i++ {
		buf[2*i] = left[i] * gain
		buf[2*i+1] = right[i] * gain
	}
	return nil
}
