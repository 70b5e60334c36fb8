// Package piano is the composition root of the input-to-sound pipeline: it
// owns the synthesis engine, the output stream and the command channel, and
// exposes the control surface used by the CLI, the TUI and input sources.
package piano

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/benoitryder/pianote/midi"
	"github.com/benoitryder/pianote/synth"
)

// Output is the stream the piano renders into. Implemented by
// audio.Output and audio.Headless.
type Output interface {
	SampleRate() float64
	Start(render func(buf []float32)) error
	Play() error
	Pause() error
	Close() error
}

// InputSource connects an event producer (hardware port, virtual keyboard)
// to the pipeline. Connect must start delivering events to send and return
// a closer that stops delivery. Implemented by midi.PortSource and
// tui.Keyboard.
type InputSource interface {
	Connect(send func(midi.Event)) (io.Closer, error)
}

// InputHandle owns a live input connection. Closing it disconnects the
// source and revokes its producer, so events it already handed to a
// goroutine can no longer reach the engine.
type InputHandle struct {
	conn io.Closer
	prod *Producer
	once sync.Once
	err  error
}

// Close disconnects the source. Safe to call more than once.
func (h *InputHandle) Close() error {
	h.once.Do(func() {
		h.prod.revoke()
		h.err = h.conn.Close()
	})
	return h.err
}

// Piano ties the engine, the output stream and the command channel
// together.
//
// Shared-state strategy: note events flow through the command channel and
// are drained without blocking at the top of each render step; the engine
// itself sits behind a mutex whose render-path critical section is bounded
// (drain what is queued now, render one block — no I/O, no allocation).
// Bank loading, the one long operation, parses the file on the control
// thread and only swaps the result in under the lock.
type Piano struct {
	out      Output
	commands chan Command

	mu     sync.Mutex // guards engine
	engine *synth.Engine

	inputMu sync.Mutex
	input   *InputHandle
}

// New builds the pipeline around an engine and a started-up output. The
// engine must have been constructed at the output's sample rate. The
// render step begins running immediately; use Play/Pause to control the
// stream.
func New(engine *synth.Engine, out Output) (*Piano, error) {
	if engine.SampleRate() != out.SampleRate() {
		return nil, fmt.Errorf("engine rate %g does not match output rate %g",
			engine.SampleRate(), out.SampleRate())
	}
	p := &Piano{
		out:      out,
		engine:   engine,
		commands: make(chan Command, queueCap),
	}
	if err := out.Start(p.renderStep); err != nil {
		return nil, err
	}
	return p, nil
}

// renderStep is the audio context: drain everything queued right now,
// apply it in FIFO order, then render one block. Failures are logged and
// replaced by silence; the audio context never terminates on error.
func (p *Piano) renderStep(buf []float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		select {
		case cmd := <-p.commands:
			p.applyLocked(cmd)
		default:
			if err := p.engine.RenderBlock(buf); err != nil {
				log.Printf("piano: render failed, emitting silence: %v", err)
				clear(buf)
			}
			return
		}
	}
}

func (p *Piano) applyLocked(cmd Command) {
	switch cmd.Kind {
	case CmdPlayEvent:
		if err := p.engine.ApplyEvent(cmd.Event); err != nil {
			log.Printf("piano: dropping event: %v", err)
		}
	case CmdSetGain:
		p.engine.SetGain(cmd.Gain)
	case CmdLoadBank:
		// Too long for the audio path; hand off to a control goroutine
		// and report failures on the log side-channel.
		go func(path string) {
			if err := p.LoadBank(path); err != nil {
				log.Printf("piano: queued bank load failed: %v", err)
			}
		}(cmd.Path)
	}
}

// Play resumes the output stream.
func (p *Piano) Play() error {
	return p.out.Play()
}

// Pause suspends the output stream.
func (p *Piano) Pause() error {
	return p.out.Pause()
}

// LoadBank loads the sound bank at path and swaps it in. The parse and the
// preset probe run outside the audio lock; the callback only ever observes
// no bank, the old bank or the new bank, never a partial state.
func (p *Piano) LoadBank(path string) error {
	p.mu.Lock()
	loader := p.engine.Loader()
	rate := p.engine.SampleRate()
	p.engine.UnloadBank()
	p.mu.Unlock()

	backend, err := loader(path, rate)
	if err != nil {
		return &synth.BankLoadError{Path: path, Err: err}
	}
	presets := synth.ProbePresets(backend)

	p.mu.Lock()
	p.engine.InstallBank(path, backend, presets)
	p.mu.Unlock()
	return nil
}

// SetGain sets the engine gain, effective from the next rendered block.
func (p *Piano) SetGain(gain float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.SetGain(gain)
}

// Gain returns the current engine gain.
func (p *Piano) Gain() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.Gain()
}

// BankPath returns the path of the loaded sound bank, or "".
func (p *Piano) BankPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.BankPath()
}

// Presets returns a snapshot of the loaded bank's presets.
func (p *Piano) Presets() []synth.Preset {
	p.mu.Lock()
	defer p.mu.Unlock()
	presets := p.engine.Presets()
	out := make([]synth.Preset, len(presets))
	copy(out, presets)
	return out
}

// SelectPreset assigns a preset to a channel. Fails with
// synth.ErrNoActiveBank or synth.ErrUnknownPreset without changing the
// current selection.
func (p *Piano) SelectPreset(channel, bank, program int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.SelectPreset(channel, bank, program)
}

// ActivePreset returns the preset assigned to a channel.
func (p *Piano) ActivePreset(channel int) (bank, program int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.ActivePreset(channel)
}

// PlayEvent enqueues a single event, as if it came from an attached
// source.
func (p *Piano) PlayEvent(ev midi.Event) {
	select {
	case p.commands <- Command{Kind: CmdPlayEvent, Event: ev}:
	default:
		log.Printf("piano: command queue full, dropping event")
	}
}

// AttachInput connects src as the pipeline's event source. At most one
// source is attached at a time: any previous source is revoked and closed
// before this returns, so its events no longer reach the engine.
func (p *Piano) AttachInput(src InputSource) (*InputHandle, error) {
	prod := newProducer(p.commands)
	conn, err := src.Connect(prod.Send)
	if err != nil {
		prod.revoke()
		return nil, err
	}
	handle := &InputHandle{conn: conn, prod: prod}

	p.inputMu.Lock()
	old := p.input
	p.input = handle
	p.inputMu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			log.Printf("piano: closing previous input: %v", err)
		}
	}
	return handle, nil
}

// DetachInput disconnects the attached source, if any.
func (p *Piano) DetachInput() {
	p.inputMu.Lock()
	old := p.input
	p.input = nil
	p.inputMu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			log.Printf("piano: closing input: %v", err)
		}
	}
}

// Close tears the pipeline down: input first, then the output stream.
func (p *Piano) Close() error {
	p.DetachInput()
	return p.out.Close()
}
