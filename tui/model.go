// Package tui is the terminal control surface: a virtual piano keyboard
// plus gain, preset and transport controls around a running pipeline.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/benoitryder/pianote/midi"
	"github.com/benoitryder/pianote/piano"
	"github.com/benoitryder/pianote/synth"
)

// noteHold is how long a pressed note sounds after its last key repeat.
// Terminals report key presses only, never releases, so note offs are
// driven by this timeout.
const noteHold = 400 * time.Millisecond

const tickRate = 40 * time.Millisecond

// Two keyboard rows mapped like a DAW virtual piano: home row is the
// white keys from C, the row above holds the black keys.
var keyNotes = map[string]int{
	"a": 0, "w": 1, "s": 2, "e": 3, "d": 4, "f": 5, "t": 6,
	"g": 7, "y": 8, "h": 9, "u": 10, "j": 11, "k": 12, "o": 13,
	"l": 14, "p": 15, ";": 16,
}

var keyOrder = []string{"a", "w", "s", "e", "d", "f", "t", "g", "y", "h", "u", "j", "k", "o", "l", "p", ";"}

type tickMsg time.Time

type Model struct {
	piano *piano.Piano
	kbd   *Keyboard

	// hardware source to switch back to with "m"; nil if none was given
	hardware piano.InputSource
	onHW     bool

	styles  styles
	octave  int // offset in octaves from middle C
	gain    float32
	active  map[uint8]time.Time // sounding note -> last press
	presets []synth.Preset
	preset  int // index into presets, -1 before a bank is loaded
	playing bool
	lastErr string
}

// NewModel builds the TUI around a running piano. hardware, if non-nil, is
// the source attached at startup; the user can switch between it and the
// virtual keyboard.
func NewModel(p *piano.Piano, hardware piano.InputSource) Model {
	m := Model{
		piano:    p,
		kbd:      NewKeyboard(),
		hardware: hardware,
		onHW:     hardware != nil,
		styles:   defaultStyles(),
		gain:     p.Gain(),
		active:   make(map[uint8]time.Time),
		presets:  p.Presets(),
		preset:   -1,
		playing:  true,
	}
	if !m.onHW {
		m.attachKeyboard()
	}
	if len(m.presets) > 0 {
		m.preset = 0
	}
	return m
}

func (m *Model) attachKeyboard() {
	if _, err := m.piano.AttachInput(m.kbd); err != nil {
		m.lastErr = err.Error()
		return
	}
	m.onHW = false
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.releaseExpired(time.Now())
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.kbd.Send(midi.Event{Type: midi.Reset})
			return m, tea.Quit

		case " ":
			m.togglePlayback()

		case "+", "=":
			m.setGain(m.gain + 0.1)
		case "-", "_":
			if m.gain > 0.1 {
				m.setGain(m.gain - 0.1)
			} else {
				m.setGain(0)
			}

		case "[":
			m.cyclePreset(-1)
		case "]":
			m.cyclePreset(1)

		case "z":
			if m.octave > -4 {
				m.octave--
			}
		case "x":
			if m.octave < 4 {
				m.octave++
			}

		case "m":
			m.toggleInput()

		default:
			if semis, ok := keyNotes[msg.String()]; ok && !m.onHW {
				m.pressNote(semis)
			}
		}
	}
	return m, nil
}

func (m *Model) pressNote(semis int) {
	key := uint8(60 + m.octave*12 + semis)
	if key > 127 {
		return
	}
	now := time.Now()
	if _, sounding := m.active[key]; !sounding {
		m.kbd.Send(midi.Event{Type: midi.NoteOn, Key: key, Value: 100})
	}
	m.active[key] = now
}

func (m *Model) releaseExpired(now time.Time) {
	for key, last := range m.active {
		if now.Sub(last) > noteHold {
			m.kbd.Send(midi.Event{Type: midi.NoteOff, Key: key})
			delete(m.active, key)
		}
	}
}

func (m *Model) togglePlayback() {
	var err error
	if m.playing {
		err = m.piano.Pause()
	} else {
		err = m.piano.Play()
	}
	if err != nil {
		m.lastErr = err.Error()
		return
	}
	m.playing = !m.playing
}

func (m *Model) setGain(gain float32) {
	m.gain = gain
	m.piano.SetGain(gain)
}

func (m *Model) cyclePreset(dir int) {
	m.presets = m.piano.Presets()
	if len(m.presets) == 0 {
		m.lastErr = synth.ErrNoActiveBank.Error()
		return
	}
	next := (m.preset + dir + len(m.presets)) % len(m.presets)
	p := m.presets[next]
	if err := m.piano.SelectPreset(0, p.Bank, p.Program); err != nil {
		m.lastErr = err.Error()
		return
	}
	m.preset = next
	m.lastErr = ""
}

// toggleInput switches the single input slot between the hardware port and
// the virtual keyboard. Attaching one always disconnects the other.
func (m *Model) toggleInput() {
	if m.hardware == nil {
		return
	}
	if m.onHW {
		m.attachKeyboard()
		return
	}
	if _, err := m.piano.AttachInput(m.hardware); err != nil {
		m.lastErr = err.Error()
		return
	}
	m.onHW = true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("  " + m.styles.title.Render("pianote") + "\n\n")

	b.WriteString("  " + m.keyboardRow() + "\n\n")

	bank := m.piano.BankPath()
	if bank == "" {
		bank = "(none)"
	}
	presetName := "-"
	if m.preset >= 0 && m.preset < len(m.presets) {
		p := m.presets[m.preset]
		presetName = fmt.Sprintf("%03d:%03d %s", p.Bank, p.Program, p.Name)
	}
	state := "playing"
	if !m.playing {
		state = "paused"
	}
	input := "virtual keyboard"
	if m.onHW {
		input = "MIDI port"
	}

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			m.styles.label.Render(label+":"), m.styles.value.Render(value)))
	}
	row("bank  ", bank)
	row("preset", presetName)
	row("gain  ", fmt.Sprintf("%.1f", m.gain))
	row("octave", fmt.Sprintf("%+d", m.octave))
	row("input ", input)
	row("state ", state)

	if m.lastErr != "" {
		b.WriteString("\n  " + m.styles.errText.Render(m.lastErr) + "\n")
	}

	b.WriteString("\n  " + m.styles.help.Render(
		"a-; play notes · z/x octave · [/] preset · +/- gain · space play/pause · m input · q quit") + "\n")
	return b.String()
}

func (m Model) keyboardRow() string {
	var parts []string
	for _, k := range keyOrder {
		key := uint8(60 + m.octave*12 + keyNotes[k])
		label := strings.ToUpper(k)
		if _, on := m.active[key]; on {
			parts = append(parts, m.styles.activeKey.Render("["+label+"]"))
		} else {
			parts = append(parts, m.styles.key.Render("["+label+"]"))
		}
	}
	return strings.Join(parts, " ")
}
