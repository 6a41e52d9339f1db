// Command gong inspects and drives the MIDI hub from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := RootCommand(&Settings{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
