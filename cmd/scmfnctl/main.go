// Command scmfnctl is the control-plane entrypoint: it serves the HTTP
// surface over C1-C6 and exposes the same operations as CLI subcommands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/deployrt/scmcore/internal/application/commands"
)

func main() {
	cmd := commands.NewCommandRegistry().RegisterCLI()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
