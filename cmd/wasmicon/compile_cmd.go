package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hota1024/wasmicon"
)

func newCompileCmd() *cobra.Command {
	var (
		outPath string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "compile <input.wasm>",
		Short: "Compile a .wasm file to Xtensa assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer log.Sync() //nolint:errcheck

			fs := afero.NewOsFs()
			return runCompile(fs, cmd, log, args[0], outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write assembly to this path instead of stdout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runCompile(fs afero.Fs, cmd *cobra.Command, log *zap.Logger, inPath, outPath string) error {
	log.Debug("reading module", zap.String("path", inPath))
	data, err := afero.ReadFile(fs, inPath)
	if err != nil {
		log.Error("failed to read input", zap.Error(err))
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	log.Debug("compiling module", zap.Int("bytes", len(data)))
	asm, err := wasmicon.Compile(data)
	if err != nil {
		log.Error("compile failed", zap.Error(err))
		return err
	}

	if outPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), asm)
		return nil
	}

	log.Debug("writing assembly", zap.String("path", outPath))
	if err := afero.WriteFile(fs, outPath, []byte(asm), 0o644); err != nil {
		log.Error("failed to write output", zap.Error(err))
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
