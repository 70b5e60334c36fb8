package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/benoitryder/pianote/audio"
	"github.com/benoitryder/pianote/midi"
	"github.com/benoitryder/pianote/piano"
	"github.com/benoitryder/pianote/synth"
	"github.com/benoitryder/pianote/tui"
)

func main() {
	input := flag.String("input", "", "input port to use, NONE to disable input (default: first input)")
	soundFont := flag.String("sound-font", "", "SoundFont file to use")
	gain := flag.Float64("gain", float64(synth.DefaultGain), "output gain")
	listPorts := flag.Bool("list-ports", false, "list ports and exit")
	headless := flag.Bool("headless", false, "run without the terminal UI")
	flag.Parse()

	log.SetFlags(0)

	if *listPorts {
		ports := midi.Ports()
		if len(ports) == 0 {
			fmt.Println("No input ports")
			return
		}
		fmt.Println("Input ports")
		for _, port := range ports {
			fmt.Printf("  %s\n", port)
		}
		return
	}

	if err := run(*input, *soundFont, float32(*gain), *headless); err != nil {
		log.Fatal(err)
	}
}

func run(input, soundFont string, gain float32, headless bool) error {
	out, err := audio.NewOutput(audio.DefaultConfig())
	if err != nil {
		return err
	}

	engine, err := synth.New(out.SampleRate())
	if err != nil {
		return err
	}

	p, err := piano.New(engine, out)
	if err != nil {
		return err
	}
	defer p.Close()

	var hardware piano.InputSource
	if input != "NONE" {
		src := midi.PortSource{Name: input}
		if _, err := p.AttachInput(src); err != nil {
			return fmt.Errorf("attach MIDI input (use -input NONE to disable): %w", err)
		}
		hardware = src
	}

	if soundFont != "" {
		if err := p.LoadBank(soundFont); err != nil {
			return err
		}
	} else {
		fmt.Println("No SoundFont provided, output will be silent until one is loaded")
	}
	p.SetGain(gain)

	if err := p.Play(); err != nil {
		return err
	}

	if headless {
		fmt.Println("Playing...")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return nil
	}

	prog := tea.NewProgram(tui.NewModel(p, hardware))
	_, err = prog.Run()
	return err
}
