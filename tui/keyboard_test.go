package tui

import (
	"testing"

	"github.com/benoitryder/pianote/midi"
)

func TestKeyboardDeliversWhileConnected(t *testing.T) {
	kbd := NewKeyboard()

	var got []midi.Event
	kbd.Send(midi.Event{Type: midi.NoteOn, Key: 60, Value: 100}) // dropped, not connected
	if kbd.Connected() {
		t.Fatal("keyboard connected before Connect")
	}

	conn, err := kbd.Connect(func(ev midi.Event) {
		got = append(got, ev)
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if !kbd.Connected() {
		t.Fatal("keyboard not connected after Connect")
	}

	kbd.Send(midi.Event{Type: midi.NoteOn, Key: 60, Value: 100})
	kbd.Send(midi.Event{Type: midi.NoteOff, Key: 60})
	if len(got) != 2 {
		t.Fatalf("delivered %d events, want 2", len(got))
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	kbd.Send(midi.Event{Type: midi.NoteOn, Key: 62, Value: 100})
	if len(got) != 2 {
		t.Errorf("closed keyboard still delivered events: %d", len(got))
	}
}

func TestKeyLayoutIsChromatic(t *testing.T) {
	seen := make(map[int]bool)
	for i, k := range keyOrder {
		semis, ok := keyNotes[k]
		if !ok {
			t.Fatalf("key %q missing from keyNotes", k)
		}
		if semis != i {
			t.Errorf("key %q maps to %d semitones, want %d", k, semis, i)
		}
		if seen[semis] {
			t.Errorf("duplicate mapping for %d semitones", semis)
		}
		seen[semis] = true
	}
}
