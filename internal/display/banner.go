// Package display provides the banner, human-readable size/bitrate
// formatting, and the quiet-mode spinner.
package display

import (
	"fmt"
	"os"

	"github.com/stormedx/shrinkx/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Cyan if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Cyan)
	}
	fmt.Fprint(os.Stdout, `     _          _       _
 ___| |__  _ __(_)_ __ | | ____  __
/ __| '_ \| '__| | '_ \| |/ /\ \/ /
\__ \ | | | |  | | | | |   <  >  <
|___/_| |_|_|  |_|_| |_|_|\_\/_/\_\
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
