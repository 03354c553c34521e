// Package cli implements the tokendesigner command-line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	debug     bool
	metrics   bool
}

// NewRootCmd creates the top-level "tokendesigner" command with global
// flags and all subcommands registered.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "tokendesigner",
		Short: "Design tokens from a shared taxonomy of reusable artifacts",
		Long: "tokendesigner manages a token taxonomy: bases, behaviors, behavior groups,\n" +
			"property sets and template formulas, and the template definitions built\n" +
			"from them, classified into a fungible/non-fungible/hybrid hierarchy.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&f.configDir, "config-dir", "", "configuration directory (env "+envPrefix+"_CONFIG_DIR)")
	root.PersistentFlags().StringVar(&f.dataDir, "data-dir", "", "data directory (default: ./.tokendesigner)")
	root.PersistentFlags().StringVar(&f.backend, "backend", "", "snapshot backend: jsonl, sqlite or redis (overrides config)")
	root.PersistentFlags().BoolVar(&f.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVar(&f.debug, "debug", false, "log at debug level with source locations")
	root.PersistentFlags().BoolVar(&f.metrics, "metrics", false, "print store operation metrics after the command")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(f),
		newListCmd(f),
		newGetCmd(f),
		newCreateCmd(f),
		newUpdateCmd(f),
		newDeleteCmd(f),
		newDefineCmd(f),
		newHierarchyCmd(f),
		newDumpCmd(f),
	)
	return root
}

// Execute runs the root command against os.Args and returns the process
// exit code.
func Execute() int {
	return exitCode(NewRootCmd().Execute())
}

// sysError marks failures of the environment (storage, filesystem, logging)
// as opposed to bad input.
type sysError struct{ err error }

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemError(err error) error {
	if err == nil {
		return nil
	}
	return &sysError{err: err}
}

// exitCode maps a command error onto the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *sysError
	if errors.As(err, &se) || errors.Is(err, types.ErrException) {
		return exitSysError
	}
	return exitUserError
}
