// Package sink owns the output file lifecycle: naming, the fixed CSV
// schema, bounded flushing, and the flush-and-close guarantee on every
// exit path.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gridlog/internal/record"
)

// columns is the fixed schema, written exactly once at open. Downstream
// analysis tools address columns by name, so names, types and ordering
// must stay stable across runs.
var columns = []string{
	"timestamp",
	"frame_id",
	"lap_number",
	"packet_type",
	"throttle",
	"brake",
	"steering",
	"speed",
	"gear",
	"rpm",
	"drs",
	"position_x",
	"position_y",
	"position_z",
	"session_time",
	"lap_distance",
	"current_lap_time_ms",
	"fuel_in_tank",
	"tyre_compound",
	"event_code",
}

// Writer appends samples to the session CSV file. It is owned
// exclusively by the process stage; no other goroutine may touch it.
type Writer struct {
	file *os.File
	csv  *csv.Writer
	path string

	flushInterval time.Duration
	lastFlush     time.Time

	rowsBuffered uint64
	rowsFlushed  uint64
	closed       bool
}

// Open creates the output directory if needed and opens a new session
// file named telemetry_<track>_<yyyymmdd_HHMMSS>.csv. The header row is
// written and flushed before Open returns, so even a session with zero
// decodable datagrams leaves a well-formed file behind.
func Open(dir, track string, startedAt time.Time, flushInterval time.Duration) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sink: failed to create output dir %s: %w", dir, err)
	}

	name := fmt.Sprintf("telemetry_%s_%s.csv",
		sanitizeTrack(track), startedAt.UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink: failed to create %s: %w", path, err)
	}

	w := &Writer{
		file:          f,
		csv:           csv.NewWriter(f),
		path:          path,
		flushInterval: flushInterval,
	}

	if err := w.csv.Write(columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("sink: failed to write header: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("sink: failed to flush header: %w", err)
	}
	w.lastFlush = time.Now()
	return w, nil
}

// Path returns the full path of the session file.
func (w *Writer) Path() string { return w.path }

// RowsWritten returns the number of rows durably flushed so far. Rows
// still sitting in the buffer are not counted.
func (w *Writer) RowsWritten() uint64 { return w.rowsFlushed }

// Write appends one sample. The buffer is flushed when the configured
// flush interval has elapsed since the last flush, bounding data loss on
// abrupt termination. Any write or flush error is fatal to the session.
func (w *Writer) Write(s *record.Sample) error {
	if err := w.csv.Write(formatRow(s)); err != nil {
		return fmt.Errorf("sink: write failed: %w", err)
	}
	w.rowsBuffered++

	if time.Since(w.lastFlush) >= w.flushInterval {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Flush drains the row buffer to the file and promotes buffered rows to
// the flushed counter.
func (w *Writer) Flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("sink: flush failed: %w", err)
	}
	w.rowsFlushed += w.rowsBuffered
	w.rowsBuffered = 0
	w.lastFlush = time.Now()
	return nil
}

// Close flushes any buffered rows and closes the file. It is safe to
// call more than once and runs on every exit path, including after a
// fatal error elsewhere in the pipeline.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	flushErr := w.Flush()
	if err := w.file.Close(); err != nil && flushErr == nil {
		return fmt.Errorf("sink: close failed: %w", err)
	}
	return flushErr
}

// formatRow renders a sample into the fixed column order. Columns the
// source packet type did not produce are left blank rather than
// fabricated.
func formatRow(s *record.Sample) []string {
	row := make([]string, len(columns))
	row[0] = s.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")
	row[1] = strconv.FormatUint(uint64(s.FrameID), 10)
	row[2] = strconv.FormatUint(uint64(s.LapNumber), 10)
	row[3] = strconv.FormatUint(uint64(s.PacketType), 10)

	if c := s.Car; c != nil {
		row[4] = strconv.Itoa(c.Throttle)
		row[5] = strconv.Itoa(c.Brake)
		row[6] = formatFloat(c.Steering, 3)
		row[7] = strconv.FormatUint(uint64(c.Speed), 10)
		row[8] = strconv.FormatInt(int64(c.Gear), 10)
		row[9] = strconv.FormatUint(uint64(c.RPM), 10)
		row[10] = strconv.FormatUint(uint64(c.DRS), 10)
	}
	if m := s.Motion; m != nil {
		row[11] = formatFloat(m.PositionX, 3)
		row[12] = formatFloat(m.PositionY, 3)
		row[13] = formatFloat(m.PositionZ, 3)
	}
	row[14] = formatFloat(s.SessionTime, 3)
	if l := s.Lap; l != nil {
		row[15] = formatFloat(l.LapDistance, 3)
		row[16] = strconv.FormatUint(uint64(l.CurrentLapTimeMS), 10)
	}
	if st := s.Status; st != nil {
		row[17] = formatFloat(st.FuelInTank, 2)
		row[18] = strconv.FormatUint(uint64(st.TyreCompound), 10)
	}
	if e := s.Event; e != nil {
		row[19] = e.Code
	}
	return row
}

func formatFloat(v float32, prec int) string {
	return strconv.FormatFloat(float64(v), 'f', prec, 32)
}

// sanitizeTrack makes a track name safe for use in a file name.
func sanitizeTrack(track string) string {
	track = strings.TrimSpace(strings.ToLower(track))
	if track == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range track {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
