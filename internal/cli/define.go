package cli

import (
	"context"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/InterWorkAlliance/visual-token-designer/internal/printer"
	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

func newDefineCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "define <formula-id> <token-name>",
		Short: "Materialize a template definition from a formula",
		Long: "Define copies a template formula into a new, editable template definition\n" +
			"named <token-name>, denormalizing its behaviors, behavior groups and property\n" +
			"sets, and files it into the classification hierarchy.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(_ context.Context, s *session) (bool, error) {
				def, err := s.store.CreateTemplateDefinition(args[0], args[1])
				if err != nil {
					return false, err
				}
				id := def.Artifact.Symbol.ID
				leaf, classified := s.store.Classification(id)
				out := cmd.OutOrStdout()
				if f.jsonMode {
					return true, printJSON(out, map[string]any{"definition": def, "leaf": leaf})
				}
				printer.Success(out, "defined %q as %s", args[1], id)
				if classified {
					printer.Info(out, "classified under %s", leaf)
				} else {
					printer.Warning(out, "not classified: the formula's base could not be resolved")
				}
				return true, nil
			})
		},
	}
}

func newHierarchyCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "hierarchy",
		Short: "Show classified template definitions by leaf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(_ context.Context, s *session) (bool, error) {
				h := s.store.GetFullTaxonomy().Hierarchy
				out := cmd.OutOrStdout()
				if f.jsonMode {
					return false, printJSON(out, hierarchySummary(h))
				}
				if h == nil {
					printer.Warning(out, "taxonomy has no hierarchy")
					return false, nil
				}
				for _, p := range types.LeafPaths {
					leaf := h.Leaf(p)
					printer.Heading(out, "%s (%d)", p, len(leaf))
					for _, id := range sortedKeys(leaf) {
						printer.Info(out, "  %s  %s", id, leaf[id].Definition.Artifact.Name)
					}
				}
				return false, nil
			})
		},
	}
}

// hierarchySummary maps each leaf path to its sorted definition ids.
func hierarchySummary(h *types.Hierarchy) map[types.LeafPath][]string {
	out := make(map[types.LeafPath][]string, len(types.LeafPaths))
	if h == nil {
		return out
	}
	for _, p := range types.LeafPaths {
		out[p] = sortedKeys(h.Leaf(p))
	}
	return out
}

func newDumpCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the whole taxonomy as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(_ context.Context, s *session) (bool, error) {
				return false, printJSON(cmd.OutOrStdout(), s.store.GetFullTaxonomy())
			})
		},
	}
}

func sortedKeys(m types.TemplateMap) []string {
	keys := slices.Sorted(maps.Keys(m))
	if keys == nil {
		return []string{}
	}
	return keys
}
