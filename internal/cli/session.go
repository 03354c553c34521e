package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/InterWorkAlliance/visual-token-designer/internal/logger"
	"github.com/InterWorkAlliance/visual-token-designer/pkg/snapshot"
	"github.com/InterWorkAlliance/visual-token-designer/pkg/taxonomy"
	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// session is one command's view of the taxonomy: the snapshot it was loaded
// from and the store built over it.
type session struct {
	cfg      types.Config
	snap     types.SnapshotStore
	store    types.ArtifactStore
	log      *slog.Logger
	registry *prometheus.Registry
	closeLog func() error
}

// openSession resolves configuration, starts logging, opens and loads the
// snapshot, and builds the store.
func openSession(ctx context.Context, f *rootFlags) (*session, error) {
	cfg, err := resolveConfig(f)
	if err != nil {
		return nil, err
	}

	closeLog, err := logger.Setup(logger.Config{DataDir: cfg.DataDir, Debug: f.debug})
	if err != nil {
		return nil, systemError(fmt.Errorf("set up logging: %w", err))
	}
	s := &session{cfg: cfg, log: logger.L(), closeLog: closeLog}

	snap, err := snapshot.Open(ctx, cfg)
	if err != nil {
		s.close(nil)
		return nil, systemError(fmt.Errorf("open %s snapshot: %w", cfg.Backend, err))
	}
	s.snap = snap

	tax, err := snap.Load(ctx)
	if err != nil {
		s.close(nil)
		return nil, systemError(fmt.Errorf("load snapshot: %w", err))
	}
	s.log.Info("snapshot.loaded", "backend", cfg.Backend, "data_dir", cfg.DataDir)

	opts := []taxonomy.Option{taxonomy.WithLogger(s.log)}
	if f.metrics {
		s.registry = prometheus.NewRegistry()
		rec, err := taxonomy.NewPrometheusRecorder(s.registry)
		if err != nil {
			s.close(nil)
			return nil, systemError(err)
		}
		opts = append(opts, taxonomy.WithRecorder(rec))
	}
	s.store = taxonomy.NewStore(tax, opts...)
	return s, nil
}

// save persists the whole taxonomy back to the snapshot.
func (s *session) save(ctx context.Context) error {
	if err := s.snap.Save(ctx, s.store.GetFullTaxonomy()); err != nil {
		return systemError(fmt.Errorf("save snapshot: %w", err))
	}
	s.log.Info("snapshot.saved", "backend", s.cfg.Backend)
	return nil
}

// close releases the snapshot and the log file. When metrics were enabled
// and w is not nil, the gathered counters are printed to w first.
func (s *session) close(w io.Writer) error {
	if s.registry != nil && w != nil {
		if err := writeMetrics(w, s.registry); err != nil {
			s.log.Warn("metrics.write", "error", err.Error())
		}
	}
	var err error
	if s.snap != nil {
		err = s.snap.Close()
	}
	if s.closeLog != nil {
		if cerr := s.closeLog(); err == nil {
			err = cerr
		}
	}
	return err
}

// withSession runs fn inside an opened session and, when fn reports a
// mutation, saves the snapshot afterwards.
func withSession(cmd *cobra.Command, f *rootFlags, fn func(ctx context.Context, s *session) (bool, error)) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, f)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(cmd.ErrOrStderr()); err == nil && cerr != nil {
			err = systemError(cerr)
		}
	}()

	mutated, err := fn(ctx, s)
	if err != nil {
		s.log.Info("command.failed", "command", cmd.Name(), "error", err.Error())
		return err
	}
	if mutated {
		return s.save(ctx)
	}
	return nil
}

// writeMetrics prints every gathered counter sample as name{labels} value.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			slices.Sort(labels)
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
