package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI event types, matching the channel-voice status bytes
const (
	NoteOff         uint8 = 0x80
	NoteOn          uint8 = 0x90
	KeyPressure     uint8 = 0xA0
	ControlChange   uint8 = 0xB0
	ProgramChange   uint8 = 0xC0
	ChannelPressure uint8 = 0xD0
	PitchBend       uint8 = 0xE0
	Reset           uint8 = 0xFF
)

// Event is a single musical instruction, produced by an input source and
// consumed once by the synthesis engine.
//
// Field use depends on Type:
//
//	NoteOn, NoteOff    Key = note number, Value = velocity
//	KeyPressure        Key = note number, Value = pressure
//	ControlChange      Key = controller number, Value = controller value
//	ProgramChange      Value = program number
//	ChannelPressure    Value = pressure
//	PitchBend          Bend = absolute 14-bit value (8192 = center)
//	Reset              no fields
type Event struct {
	Type    uint8
	Channel uint8 // 0-15
	Key     uint8 // 0-127
	Value   uint8 // 0-127
	Bend    uint16
}

// FromMessage converts a wire-level MIDI message into an Event.
// Returns false for message types the pipeline does not handle
// (sysex, clock, vendor-specific); callers drop those.
func FromMessage(msg gomidi.Message) (Event, bool) {
	var ch, key, vel, ctrl, val, prog, pressure uint8
	var rel int16
	var abs uint16

	switch {
	case msg.GetNoteOff(&ch, &key, &vel):
		return Event{Type: NoteOff, Channel: ch, Key: key, Value: vel}, true
	case msg.GetNoteOn(&ch, &key, &vel):
		if vel == 0 {
			// NoteOn with velocity 0 is a note off
			return Event{Type: NoteOff, Channel: ch, Key: key}, true
		}
		return Event{Type: NoteOn, Channel: ch, Key: key, Value: vel}, true
	case msg.GetPolyAfterTouch(&ch, &key, &pressure):
		return Event{Type: KeyPressure, Channel: ch, Key: key, Value: pressure}, true
	case msg.GetControlChange(&ch, &ctrl, &val):
		return Event{Type: ControlChange, Channel: ch, Key: ctrl, Value: val}, true
	case msg.GetProgramChange(&ch, &prog):
		return Event{Type: ProgramChange, Channel: ch, Value: prog}, true
	case msg.GetAfterTouch(&ch, &pressure):
		return Event{Type: ChannelPressure, Channel: ch, Value: pressure}, true
	case msg.GetPitchBend(&ch, &rel, &abs):
		return Event{Type: PitchBend, Channel: ch, Bend: abs}, true
	case len(msg) == 1 && msg[0] == 0xFF:
		return Event{Type: Reset}, true
	}
	return Event{}, false
}
