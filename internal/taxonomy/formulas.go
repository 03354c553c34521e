package taxonomy

import (
	"maps"
	"slices"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// formulaTable stores formulas keyed by tooling, as snapshots do, and keeps
// a secondary index from symbol id to tooling so that every lookup by id is
// a map hit rather than a scan.
type formulaTable struct {
	rows map[string]types.TemplateFormula
	ids  map[string]string
}

func newFormulaTable(rows map[string]types.TemplateFormula) *formulaTable {
	t := &formulaTable{rows: rows, ids: make(map[string]string, len(rows))}
	for _, tooling := range slices.Sorted(maps.Keys(rows)) {
		id := rows[tooling].Artifact.Symbol.ID
		if _, dup := t.ids[id]; id != "" && !dup {
			t.ids[id] = tooling
		}
	}
	return t
}

// set stores f under its tooling, overwriting any formula there.
func (t *formulaTable) set(f types.TemplateFormula) {
	tooling := f.Artifact.Symbol.Tooling
	if old, ok := t.rows[tooling]; ok {
		t.unindex(old.Artifact.Symbol.ID, tooling)
	}
	t.rows[tooling] = f
	if id := f.Artifact.Symbol.ID; id != "" {
		t.ids[id] = tooling
	}
}

// byID resolves a formula by artifact symbol id.
func (t *formulaTable) byID(id string) (string, types.TemplateFormula, bool) {
	tooling, ok := t.ids[id]
	if !ok {
		return "", types.TemplateFormula{}, false
	}
	f, ok := t.rows[tooling]
	return tooling, f, ok
}

// byTooling resolves a formula by the tooling recorded in its symbol.
func (t *formulaTable) byTooling(tooling string) (types.TemplateFormula, bool) {
	if tooling == "" {
		return types.TemplateFormula{}, false
	}
	if f, ok := t.rows[tooling]; ok && f.Artifact.Symbol.Tooling == tooling {
		return f, true
	}
	for _, k := range slices.Sorted(maps.Keys(t.rows)) {
		if f := t.rows[k]; f.Artifact.Symbol.Tooling == tooling {
			return f, true
		}
	}
	return types.TemplateFormula{}, false
}

// deleteByID removes exactly the formula whose symbol id is id, whatever
// tooling it is stored under.
func (t *formulaTable) deleteByID(id string) bool {
	tooling, _, ok := t.byID(id)
	if !ok {
		return false
	}
	delete(t.rows, tooling)
	t.unindex(id, tooling)
	return true
}

// unindex drops the id entry if it points at tooling, then re-points it at
// any other formula sharing the id.
func (t *formulaTable) unindex(id, tooling string) {
	if id == "" || t.ids[id] != tooling {
		return
	}
	delete(t.ids, id)
	for _, k := range slices.Sorted(maps.Keys(t.rows)) {
		if k != tooling && t.rows[k].Artifact.Symbol.ID == id {
			t.ids[id] = k
			return
		}
	}
}

func (t *formulaTable) symbols() []types.ArtifactSymbol {
	out := make([]types.ArtifactSymbol, 0, len(t.rows))
	names := make(map[types.ArtifactSymbol]string, len(t.rows))
	for _, f := range t.rows {
		out = append(out, f.Artifact.Symbol)
		names[f.Artifact.Symbol] = f.Artifact.Name
	}
	sortSymbols(out, names)
	return out
}
