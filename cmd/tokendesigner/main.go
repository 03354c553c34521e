// Command tokendesigner manages a token taxonomy from the command line.
package main

import (
	"os"

	"github.com/InterWorkAlliance/visual-token-designer/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
