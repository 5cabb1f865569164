package sink

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Summary is the machine-readable mirror of the shutdown summary,
// written as a YAML sidecar next to the session CSV.
type Summary struct {
	Track     string    `yaml:"track"`
	File      string    `yaml:"file"`
	StartedAt time.Time `yaml:"started_at"`
	Duration  string    `yaml:"duration"`

	Received       uint64 `yaml:"packets_received"`
	Decoded        uint64 `yaml:"packets_decoded"`
	Malformed      uint64 `yaml:"packets_malformed"`
	Unsupported    uint64 `yaml:"packets_unsupported"`
	LengthMismatch uint64 `yaml:"packets_length_mismatch"`
	Dropped        uint64 `yaml:"packets_dropped"`
	RowsWritten    uint64 `yaml:"rows_written"`
	SessionChanges uint64 `yaml:"session_changes"`
	LapRegressions uint64 `yaml:"lap_regressions"`

	ByType []TypeCount `yaml:"by_type,omitempty"`
}

// TypeCount is a per-packet-type received count.
type TypeCount struct {
	ID    uint8  `yaml:"id"`
	Name  string `yaml:"name"`
	Count uint64 `yaml:"count"`
}

// SortByType orders the per-type counts by packet id for stable output.
func (s *Summary) SortByType() {
	sort.Slice(s.ByType, func(i, j int) bool { return s.ByType[i].ID < s.ByType[j].ID })
}

// WriteSummary writes the sidecar as <csvPath>.summary.yaml. A failure
// here is reported but never masks the recording itself.
func WriteSummary(csvPath string, s *Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("sink: failed to marshal summary: %w", err)
	}
	path := csvPath + ".summary.yaml"
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("sink: failed to write summary %s: %w", path, err)
	}
	return nil
}
