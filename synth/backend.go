package synth

import (
	"fmt"
	"os"

	"github.com/sinshu/go-meltysynth/meltysynth"
)

// Backend is the low-level synthesis surface the engine drives. The
// production implementation wraps a SoundFont synthesizer; tests substitute
// their own.
//
// All methods are called from the audio path and must not block or
// allocate. Primitives a backend does not support must be no-ops.
type Backend interface {
	NoteOn(channel, key, velocity int)
	NoteOff(channel, key int)
	KeyPressure(channel, key, value int)
	ControlChange(channel, controller, value int)
	ProgramChange(channel, program int)
	ChannelPressure(channel, value int)
	PitchBend(channel, value int) // value is absolute 14-bit, 8192 = center
	Reset()

	// Render writes the next len(left) frames into the two channel
	// buffers and advances synthesis time accordingly.
	Render(left, right []float32)

	// Preset reports whether the loaded bank defines the given
	// (bank, program) pair, and its display name if so.
	Preset(bank, program int) (name string, ok bool)
}

// BankLoader parses a sound bank file and builds a backend for it at the
// given sample rate. It runs on a control thread, never on the audio path.
type BankLoader func(path string, sampleRate float64) (Backend, error)

// LoadSoundFont is the production BankLoader, backed by a SoundFont2
// synthesizer.
func LoadSoundFont(path string, sampleRate float64) (Backend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sf, err := meltysynth.NewSoundFont(f)
	if err != nil {
		return nil, fmt.Errorf("parse soundfont: %w", err)
	}

	settings := meltysynth.NewSynthesizerSettings(int32(sampleRate))
	s, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, fmt.Errorf("create synthesizer: %w", err)
	}

	b := &soundFontBackend{synth: s, presets: make(map[int]string)}
	for _, p := range sf.Presets {
		b.presets[presetKey(int(p.BankNumber), int(p.PatchNumber))] = p.Name
	}
	return b, nil
}

func presetKey(bank, program int) int {
	return bank<<8 | program
}

type soundFontBackend struct {
	synth   *meltysynth.Synthesizer
	presets map[int]string
}

func (b *soundFontBackend) NoteOn(channel, key, velocity int) {
	b.synth.NoteOn(int32(channel), int32(key), int32(velocity))
}

func (b *soundFontBackend) NoteOff(channel, key int) {
	b.synth.NoteOff(int32(channel), int32(key))
}

func (b *soundFontBackend) KeyPressure(channel, key, value int) {
	// Not interpreted by the synthesizer; forwarded for completeness
	b.synth.ProcessMidiMessage(int32(channel), 0xA0, int32(key), int32(value))
}

func (b *soundFontBackend) ControlChange(channel, controller, value int) {
	b.synth.ProcessMidiMessage(int32(channel), 0xB0, int32(controller), int32(value))
}

func (b *soundFontBackend) ProgramChange(channel, program int) {
	b.synth.ProcessMidiMessage(int32(channel), 0xC0, int32(program), 0)
}

func (b *soundFontBackend) ChannelPressure(channel, value int) {
	b.synth.ProcessMidiMessage(int32(channel), 0xD0, int32(value), 0)
}

func (b *soundFontBackend) PitchBend(channel, value int) {
	b.synth.ProcessMidiMessage(int32(channel), 0xE0, int32(value&0x7F), int32(value>>7))
}

func (b *soundFontBackend) Reset() {
	b.synth.Reset()
}

func (b *soundFontBackend) Render(left, right []float32) {
	b.synth.Render(left, right)
}

func (b *soundFontBackend) Preset(bank, program int) (string, bool) {
	name, ok := b.presets[presetKey(bank, program)]
	return name, ok
}
