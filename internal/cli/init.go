package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/InterWorkAlliance/visual-token-designer/internal/paths"
	"github.com/InterWorkAlliance/visual-token-designer/internal/printer"
	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and snapshot storage",
		Long: "Create the configuration directory and config.yaml, then initialize the\n" +
			"selected snapshot backend with an empty taxonomy if it holds none.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, f)
		},
	}
}

func runInit(cmd *cobra.Command, f *rootFlags) error {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}

	initial := types.Config{Backend: f.backend, DataDir: f.dataDir}
	if initial.Backend == "" {
		initial.Backend = defaultBackend
	}
	if err := initial.Validate(); err != nil && !errors.Is(err, types.ErrRedisAddrEmpty) {
		return err
	}
	wrote, err := writeConfigIfMissing(configDir, initial)
	if err != nil {
		return systemError(fmt.Errorf("write config: %w", err))
	}

	return withSession(cmd, f, func(ctx context.Context, s *session) (bool, error) {
		out := cmd.OutOrStdout()
		if f.jsonMode {
			return true, printJSON(out, map[string]any{
				"config_dir":     configDir,
				"config_written": wrote,
				"backend":        s.cfg.Backend,
				"data_dir":       s.cfg.DataDir,
			})
		}
		if wrote {
			printer.Info(out, "wrote %s/%s", configDir, configFileExt)
		}
		printer.Success(out, "tokendesigner initialized (%s backend, data in %s)", s.cfg.Backend, s.cfg.DataDir)
		return true, nil
	})
}
