package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// JSONL file names besides the per-section ones.
const (
	hierarchyFile = "hierarchy.jsonl"
	metaFile      = "taxonomy.jsonl"
)

// JSONLStore keeps a snapshot as one JSONL file per sub-store in a directory.
type JSONLStore struct {
	dir string
}

var _ types.SnapshotStore = (*JSONLStore)(nil)

// NewJSONLStore returns a store over dir. The directory is created on the
// first Save.
func NewJSONLStore(dir string) *JSONLStore {
	return &JSONLStore{dir: dir}
}

func sectionFile(s section) string {
	return s.name + ".jsonl"
}

// Load reads every file in the directory. Missing files are empty, and a
// missing directory yields an empty taxonomy.
func (j *JSONLStore) Load(ctx context.Context) (*types.Taxonomy, error) {
	flat := &flatTaxonomy{artifacts: make(map[types.ArtifactKind][]entry, len(sections))}

	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := readRecords[entry](filepath.Join(j.dir, sectionFile(s)))
		if err != nil {
			return nil, err
		}
		flat.artifacts[s.kind] = rows
	}

	leaves, err := readRecords[leafEntry](filepath.Join(j.dir, hierarchyFile))
	if err != nil {
		return nil, err
	}
	flat.leaves = leaves

	metas, err := readRecords[meta](filepath.Join(j.dir, metaFile))
	if err != nil {
		return nil, err
	}
	if len(metas) > 0 {
		flat.meta = metas[len(metas)-1]
	}
	return assemble(flat), nil
}

// Save rewrites every file. Each file is replaced atomically; a failure
// partway leaves earlier files already replaced.
func (j *JSONLStore) Save(ctx context.Context, tax *types.Taxonomy) error {
	flat, err := flatten(tax)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeRecords(filepath.Join(j.dir, sectionFile(s)), flat.artifacts[s.kind]); err != nil {
			return err
		}
	}
	if err := writeRecords(filepath.Join(j.dir, hierarchyFile), flat.leaves); err != nil {
		return err
	}
	return writeRecords(filepath.Join(j.dir, metaFile), []meta{flat.meta})
}

// Close implements types.SnapshotStore.
func (j *JSONLStore) Close() error { return nil }

// readRecords decodes every line of a JSONL file as T. A missing file reads
// as empty.
func readRecords[T any](path string) ([]T, error) {
	lines, err := readJSONL(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(lines))
	for _, line := range lines {
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func writeRecords[T any](path string, rows []T) error {
	lines := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
		}
		lines = append(lines, b)
	}
	return writeJSONL(path, lines)
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// maxLineSize bounds one JSONL record. Definitions carry file manifests, so
// lines get much longer than bufio's default.
const maxLineSize = 16 << 20

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
