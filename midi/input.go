// Package midi provides typed musical events and the hardware input
// boundary: enumerating MIDI ports and delivering decoded events from a
// connected port into the pipeline.
package midi

import (
	"errors"
	"fmt"
	"io"
	"log"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
)

// ErrNoPort is returned when no MIDI input port is available.
var ErrNoPort = errors.New("no MIDI input port")

// Ports returns the names of the available MIDI input ports.
func Ports() []string {
	ins := gomidi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// DefaultPort returns the name of the first available input port.
func DefaultPort() (string, error) {
	ins := gomidi.GetInPorts()
	if len(ins) == 0 {
		return "", ErrNoPort
	}
	return ins[0].String(), nil
}

// Connect opens the named input port and delivers each decoded event to
// send until the returned connection is closed. Messages the pipeline does
// not handle are dropped with a logged warning.
func Connect(port string, send func(Event)) (*Conn, error) {
	ins := gomidi.GetInPorts()
	idx := -1
	for i := range ins {
		if ins[i].String() == port {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("MIDI input port not found: %s", port)
	}

	stop, err := gomidi.ListenTo(ins[idx], func(msg gomidi.Message, timestampms int32) {
		ev, ok := FromMessage(msg)
		if !ok {
			log.Printf("midi: dropping unhandled message from %s: %s", port, msg)
			return
		}
		send(ev)
	})
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", port, err)
	}
	return &Conn{port: port, stop: stop}, nil
}

// Conn is a live connection to a MIDI input port. Closing it stops event
// delivery.
type Conn struct {
	port string
	stop func()
}

// Port returns the name of the connected port.
func (c *Conn) Port() string {
	return c.port
}

// Close stops listening on the port. Safe to call more than once.
func (c *Conn) Close() error {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	return nil
}

// PortSource attaches a hardware MIDI port as a piano input source.
// An empty Name selects the first available port.
type PortSource struct {
	Name string
}

// Connect implements the input source contract: it opens the port and
// starts delivering events to send. The returned closer disconnects.
func (s PortSource) Connect(send func(Event)) (io.Closer, error) {
	port := s.Name
	if port == "" {
		var err error
		port, err = DefaultPort()
		if err != nil {
			return nil, err
		}
	}
	return Connect(port, send)
}
