package tui

import (
	"io"
	"sync"

	"github.com/benoitryder/pianote/midi"
)

// Keyboard is the virtual-keyboard event source: terminal key presses
// become note events. It implements the same source contract as a
// hardware port, so attaching it replaces (and detaches) any other input.
type Keyboard struct {
	mu   sync.Mutex
	send func(midi.Event)
}

// NewKeyboard returns a disconnected virtual keyboard.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Connect starts delivering key-press events to send.
func (k *Keyboard) Connect(send func(midi.Event)) (io.Closer, error) {
	k.mu.Lock()
	k.send = send
	k.mu.Unlock()
	return keyboardConn{k}, nil
}

// Send forwards an event to the pipeline. A no-op while disconnected.
func (k *Keyboard) Send(ev midi.Event) {
	k.mu.Lock()
	send := k.send
	k.mu.Unlock()
	if send != nil {
		send(ev)
	}
}

// Connected reports whether the keyboard is attached to the pipeline.
func (k *Keyboard) Connected() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.send != nil
}

type keyboardConn struct {
	k *Keyboard
}

func (c keyboardConn) Close() error {
	c.k.mu.Lock()
	c.k.send = nil
	c.k.mu.Unlock()
	return nil
}
