package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/InterWorkAlliance/visual-token-designer/internal/printer"
	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

const kindHelp = "Kinds: base, behavior, behavior-group, property-set, template-formula, template-definition"

func newListCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List the artifacts of one kind",
		Long:  "List prints the symbol of every artifact of the given kind.\n\n" + kindHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseArtifactKind(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, f, func(_ context.Context, s *session) (bool, error) {
				syms, err := s.store.ListArtifacts(kind)
				if err != nil {
					return false, err
				}
				out := cmd.OutOrStdout()
				if f.jsonMode {
					return false, printJSON(out, syms)
				}
				if len(syms) == 0 {
					printer.Info(out, "no %s artifacts", kind)
					return false, nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTOOLING")
				for _, sym := range syms {
					fmt.Fprintf(tw, "%s\t%s\n", sym.ID, sym.Tooling)
				}
				return false, tw.Flush()
			})
		},
	}
}

func newGetCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Print one artifact as JSON",
		Long: "Get prints an artifact as JSON. Template formulas are addressed by tooling,\n" +
			"every other kind by id.\n\n" + kindHelp,
		Example: "  tokendesigner get behavior 6a1d...\n  tokendesigner get template-formula 'tF{d,t}'",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseArtifactKind(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, f, func(_ context.Context, s *session) (bool, error) {
				v, err := getArtifact(s.store, kind, args[1])
				if err != nil {
					return false, err
				}
				return false, printJSON(cmd.OutOrStdout(), v)
			})
		},
	}
}

// getArtifact dispatches a lookup to the getter for kind.
func getArtifact(store types.ArtifactStore, kind types.ArtifactKind, key string) (any, error) {
	sym := types.ArtifactSymbol{ID: key, Kind: kind}
	switch kind {
	case types.KindBase:
		return store.GetBaseArtifact(sym)
	case types.KindBehavior:
		return store.GetBehaviorArtifact(sym)
	case types.KindBehaviorGroup:
		return store.GetBehaviorGroupArtifact(sym)
	case types.KindPropertySet:
		return store.GetPropertySetArtifact(sym)
	case types.KindTemplateFormula:
		return store.GetTemplateFormulaArtifact(types.ArtifactSymbol{Tooling: key, Kind: kind})
	case types.KindTemplateDefinition:
		return store.GetTemplateDefinitionArtifact(sym)
	}
	return nil, fmt.Errorf("get %q: %w", kind, types.ErrUnsupportedKind)
}

func newCreateCmd(f *rootFlags) *cobra.Command {
	return newWriteCmd(f, "create", "Create an artifact from a JSON file",
		func(store types.ArtifactStore) func(types.ArtifactKind, *types.Payload) error {
			return store.CreateArtifact
		})
}

func newUpdateCmd(f *rootFlags) *cobra.Command {
	return newWriteCmd(f, "update", "Replace an artifact from a JSON file",
		func(store types.ArtifactStore) func(types.ArtifactKind, *types.Payload) error {
			return store.UpdateArtifact
		})
}

// newWriteCmd builds create and update, which differ only in the store
// operation they call.
func newWriteCmd(f *rootFlags, verb, short string, op func(types.ArtifactStore) func(types.ArtifactKind, *types.Payload) error) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   verb + " <kind> --file <path>",
		Short: short,
		Long: short + ". The file holds the artifact's JSON; use - for stdin.\n" +
			"Bases can be updated but not created.\n\n" + kindHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseArtifactKind(args[0])
			if err != nil {
				return err
			}
			data, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			payload := &types.Payload{TypeURL: types.TypeURL(kind), Value: data}
			return withSession(cmd, f, func(_ context.Context, s *session) (bool, error) {
				if err := op(s.store)(kind, payload); err != nil {
					return false, err
				}
				out := cmd.OutOrStdout()
				if f.jsonMode {
					return true, printJSON(out, map[string]string{"status": verb + "d", "kind": string(kind)})
				}
				printer.Success(out, "%sd %s", verb, kind)
				return true, nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding the artifact (- for stdin)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readInput reads path, or r when path is "-".
func readInput(r io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func newDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete an artifact by id",
		Long: "Delete removes an artifact by symbol id. Deleting a template definition also\n" +
			"removes it from the hierarchy.\n\n" + kindHelp,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := types.ParseArtifactKind(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, f, func(_ context.Context, s *session) (bool, error) {
				if err := s.store.DeleteArtifact(types.ArtifactSymbol{ID: args[1], Kind: kind}); err != nil {
					return false, err
				}
				out := cmd.OutOrStdout()
				if f.jsonMode {
					return true, printJSON(out, map[string]string{"status": "deleted", "kind": string(kind), "id": args[1]})
				}
				printer.Success(out, "deleted %s %s", kind, args[1])
				return true, nil
			})
		},
	}
}
