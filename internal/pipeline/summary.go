package pipeline

import (
	"sync/atomic"
	"time"

	"gridlog/internal/sink"
	"gridlog/internal/telemetry"
)

type atomicState struct {
	v atomic.Int32
}

func (s *atomicState) load() State { return State(s.v.Load()) }
func (s *atomicState) swap(n State) State { return State(s.v.Swap(int32(n))) }

// Summary snapshots the run counters into the report written at
// shutdown. Best-effort on fatal paths: it reflects whatever was counted
// before the abort.
func (p *Pipeline) Summary() *sink.Summary {
	s := &sink.Summary{
		Track:     p.cfg.Track,
		File:      p.cfg.Writer.Path(),
		StartedAt: p.cfg.StartedAt,
		Duration:  time.Since(p.cfg.StartedAt).Round(time.Millisecond).String(),

		Received:       p.metrics.Received.Load(),
		Decoded:        p.metrics.Decoded.Load(),
		Malformed:      p.metrics.Malformed.Load(),
		Unsupported:    p.metrics.Unsupported.Load(),
		LengthMismatch: p.metrics.LengthMismatch.Load(),
		Dropped:        p.metrics.Dropped.Load(),
		RowsWritten:    p.cfg.Writer.RowsWritten(),
		SessionChanges: p.cfg.Assembler.SessionChanges,
		LapRegressions: p.cfg.Assembler.LapRegressions,
	}
	for id := 0; id < 256; id++ {
		if n := p.metrics.byType[id].Load(); n > 0 {
			s.ByType = append(s.ByType, sink.TypeCount{
				ID:    uint8(id),
				Name:  telemetry.PacketName(uint8(id)),
				Count: n,
			})
		}
	}
	s.SortByType()
	return s
}

// emitSummary logs the shutdown summary and, when enabled, writes the
// YAML sidecar next to the CSV.
func (p *Pipeline) emitSummary() {
	s := p.Summary()

	p.logger.WithFields(map[string]interface{}{
		"file":            s.File,
		"duration":        s.Duration,
		"received":        s.Received,
		"decoded":         s.Decoded,
		"skipped":         s.Malformed + s.LengthMismatch,
		"unsupported":     s.Unsupported,
		"dropped":         s.Dropped,
		"rows_written":    s.RowsWritten,
		"session_changes": s.SessionChanges,
	}).Info("recording finished")

	for _, tc := range s.ByType {
		p.logger.Infof("  type %2d - %-20s: %d packets", tc.ID, tc.Name, tc.Count)
	}

	if p.cfg.WriteSummary {
		if err := sink.WriteSummary(p.cfg.Writer.Path(), s); err != nil {
			p.logger.WithError(err).Warn("failed to write summary sidecar")
		}
	}
}
