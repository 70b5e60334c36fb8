package midi

import (
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestFromMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  gomidi.Message
		want Event
	}{
		{"note on", gomidi.NoteOn(2, 60, 100),
			Event{Type: NoteOn, Channel: 2, Key: 60, Value: 100}},
		{"note off", gomidi.NoteOff(2, 60),
			Event{Type: NoteOff, Channel: 2, Key: 60}},
		{"note on velocity zero", gomidi.NoteOn(0, 64, 0),
			Event{Type: NoteOff, Channel: 0, Key: 64}},
		{"poly aftertouch", gomidi.PolyAfterTouch(1, 60, 88),
			Event{Type: KeyPressure, Channel: 1, Key: 60, Value: 88}},
		{"control change", gomidi.ControlChange(3, 7, 127),
			Event{Type: ControlChange, Channel: 3, Key: 7, Value: 127}},
		{"program change", gomidi.ProgramChange(4, 12),
			Event{Type: ProgramChange, Channel: 4, Value: 12}},
		{"channel aftertouch", gomidi.AfterTouch(5, 70),
			Event{Type: ChannelPressure, Channel: 5, Value: 70}},
		{"pitch bend center", gomidi.Pitchbend(6, 0),
			Event{Type: PitchBend, Channel: 6, Bend: 8192}},
		{"pitch bend max", gomidi.Pitchbend(6, 8191),
			Event{Type: PitchBend, Channel: 6, Bend: 16383}},
		{"system reset", gomidi.Message{0xFF},
			Event{Type: Reset}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromMessage(tt.msg)
			if !ok {
				t.Fatalf("FromMessage(%v) not handled", tt.msg)
			}
			if got != tt.want {
				t.Errorf("FromMessage(%v) = %+v, want %+v", tt.msg, got, tt.want)
			}
		})
	}
}

func TestFromMessageUnhandled(t *testing.T) {
	msgs := []gomidi.Message{
		gomidi.SysEx([]byte{0x00, 0x20, 0x29}),
		gomidi.Message{0xF8}, // timing clock
	}
	for _, msg := range msgs {
		if ev, ok := FromMessage(msg); ok {
			t.Errorf("FromMessage(%v) = %+v, want not handled", msg, ev)
		}
	}
}

func TestConnectUnknownPort(t *testing.T) {
	if _, err := Connect("no such port", func(Event) {}); err == nil {
		t.Fatal("expected error for unknown port")
	}
}
