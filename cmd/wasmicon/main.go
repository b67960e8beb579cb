// Command wasmicon compiles a WebAssembly module into Xtensa ESP32
// assembly text.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wasmicon",
		Short:         "Compile a WebAssembly module to Xtensa ESP32 assembly",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newCompileCmd())
	return cmd
}
