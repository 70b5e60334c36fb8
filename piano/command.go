package piano

import (
	"log"
	"sync/atomic"

	"github.com/benoitryder/pianote/midi"
)

// Command kinds applied by the audio context when it drains the queue.
const (
	CmdPlayEvent uint8 = iota
	CmdLoadBank
	CmdSetGain
)

// Command is one unit of work for the audio context. Per producer, commands
// are applied in submission order; across producers the interleaving is
// arbitrary.
type Command struct {
	Kind  uint8
	Event midi.Event // CmdPlayEvent
	Path  string     // CmdLoadBank
	Gain  float32    // CmdSetGain
}

// queueCap bounds the command channel. The audio context drains it every
// render period, so it only fills if producers outrun the device by
// thousands of events; past that point sends are dropped rather than
// blocking a driver callback thread.
const queueCap = 1024

// Producer is the enqueue side of the command channel handed to an input
// source. Revoking it (when the source is replaced or detached) makes
// every later send a silent no-op, so a stale source can never reach the
// engine again.
type Producer struct {
	ch      chan<- Command
	revoked atomic.Bool
}

func newProducer(ch chan<- Command) *Producer {
	return &Producer{ch: ch}
}

// Send enqueues a musical event. It never blocks.
func (p *Producer) Send(ev midi.Event) {
	p.Enqueue(Command{Kind: CmdPlayEvent, Event: ev})
}

// Enqueue queues a command for the audio context. It never blocks: on a
// full queue the command is dropped with a logged warning.
func (p *Producer) Enqueue(cmd Command) {
	if p.revoked.Load() {
		return
	}
	select {
	case p.ch <- cmd:
	default:
		log.Printf("piano: command queue full, dropping command (kind %d)", cmd.Kind)
	}
}

func (p *Producer) revoke() {
	p.revoked.Store(true)
}
