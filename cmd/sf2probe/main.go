// sf2probe prints the preset grid a SoundFont file defines, the same
// enumeration the pipeline performs after a bank load.
package main

import (
	"fmt"
	"os"

	"github.com/benoitryder/pianote/synth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sf2probe FILE.sf2")
		os.Exit(2)
	}
	path := os.Args[1]

	backend, err := synth.LoadSoundFont(path, 44100)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sf2probe: %v\n", err)
		os.Exit(1)
	}

	presets := synth.ProbePresets(backend)
	fmt.Printf("%s: %d presets\n", path, len(presets))
	for _, p := range presets {
		fmt.Printf("  %03d:%03d  %s\n", p.Bank, p.Program, p.Name)
	}
}
