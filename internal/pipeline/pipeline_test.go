package pipeline

import (
	"context"
	"encoding/binary"
	"encoding/csv"
	"io"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridlog/internal/capture"
	"gridlog/internal/record"
	"gridlog/internal/sink"
	"gridlog/internal/telemetry"
)

// fakeSource feeds datagrams from a channel. A closed channel behaves
// like an exhausted source (io.EOF), an empty one like a quiet network
// (ErrTimeout).
type fakeSource struct {
	ch chan capture.Datagram
}

func newFakeSource(buffer int) *fakeSource {
	return &fakeSource{ch: make(chan capture.Datagram, buffer)}
}

func (f *fakeSource) Receive() (capture.Datagram, error) {
	select {
	case d, ok := <-f.ch:
		if !ok {
			return capture.Datagram{}, io.EOF
		}
		return d, nil
	case <-time.After(10 * time.Millisecond):
		return capture.Datagram{}, capture.ErrTimeout
	}
}

func (f *fakeSource) Close() error { return nil }

func (f *fakeSource) send(data []byte) {
	f.ch <- capture.Datagram{Data: data, ReceivedAt: time.Now()}
}

// --- datagram builders ---

const (
	telemetryPayloadLen = 1352 - telemetry.HeaderSize
	lapPayloadLen       = 1131 - telemetry.HeaderSize
)

func buildHeader(packetID uint8, frame uint32, uid uint64, playerIdx uint8) []byte {
	b := make([]byte, telemetry.HeaderSize)
	binary.LittleEndian.PutUint16(b[0:2], 2023)
	b[2] = 23
	b[5] = 1
	b[6] = packetID
	binary.LittleEndian.PutUint64(b[7:15], uid)
	binary.LittleEndian.PutUint32(b[15:19], math.Float32bits(10.0))
	binary.LittleEndian.PutUint32(b[19:23], frame)
	b[27] = playerIdx
	b[28] = 255
	return b
}

func buildTelemetryDatagram(frame uint32, throttle float32, speed uint16) []byte {
	d := buildHeader(telemetry.PacketCarTelemetry, frame, 42, 0)
	payload := make([]byte, telemetryPayloadLen)
	binary.LittleEndian.PutUint16(payload[0:2], speed)
	binary.LittleEndian.PutUint32(payload[2:6], math.Float32bits(throttle))
	return append(d, payload...)
}

func buildLapDatagram(frame uint32, lap uint8) []byte {
	d := buildHeader(telemetry.PacketLapData, frame, 42, 0)
	payload := make([]byte, lapPayloadLen)
	payload[31] = lap
	return append(d, payload...)
}

// --- test harness ---

type harness struct {
	source *fakeSource
	writer *sink.Writer
	pipe   *Pipeline
}

func newHarness(t *testing.T, writeSummary bool) *harness {
	t.Helper()

	startedAt := time.Now().UTC()
	writer, err := sink.Open(t.TempDir(), "monza", startedAt, time.Hour)
	require.NoError(t, err)

	source := newFakeSource(64)
	pipe := New(Config{
		Source:        source,
		Registry:      telemetry.NewRegistry(),
		Assembler:     record.NewAssembler(record.NewSession("monza", startedAt)),
		Writer:        writer,
		Format:        telemetry.Format{PacketFormat: 2023, GameYear: 23},
		QueueCapacity: 64,
		Track:         "monza",
		StartedAt:     startedAt,
		WriteSummary:  writeSummary,
	})
	return &harness{source: source, writer: writer, pipe: pipe}
}

func (h *harness) runToEOF(t *testing.T) {
	t.Helper()
	close(h.source.ch)
	require.NoError(t, h.pipe.Run(context.Background()))
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// --- tests ---

func TestPipelineRecordsThrottleSequenceInOrder(t *testing.T) {
	h := newHarness(t, false)

	for i, throttle := range []float32{0, 0.5, 1.0} {
		h.source.send(buildTelemetryDatagram(uint32(i+1), throttle, 100+uint16(i)))
	}
	h.runToEOF(t)

	assert.Equal(t, uint64(3), h.pipe.Metrics().Received.Load())
	assert.Equal(t, uint64(3), h.pipe.Metrics().Decoded.Load())
	assert.Equal(t, uint64(3), h.writer.RowsWritten())

	rows := readRows(t, h.writer.Path())
	require.Len(t, rows, 4)
	for i, wantThrottle := range []string{"0", "50", "100"} {
		row := rows[i+1]
		assert.Equal(t, wantThrottle, row[4], "row %d throttle", i)
		assert.Equal(t, "6", row[3], "row %d packet_type", i)
	}
}

func TestPipelineLapNumberCarriesIntoLaterRows(t *testing.T) {
	h := newHarness(t, false)

	h.source.send(buildLapDatagram(1, 2))
	for frame := uint32(2); frame <= 4; frame++ {
		h.source.send(buildTelemetryDatagram(frame, 0.3, 200))
	}
	h.runToEOF(t)

	rows := readRows(t, h.writer.Path())
	require.Len(t, rows, 5)
	for _, row := range rows[1:] {
		assert.Equal(t, "2", row[2], "lap_number")
	}
}

func TestPipelineSkipsUnsupportedType(t *testing.T) {
	h := newHarness(t, false)

	unknown := buildHeader(255, 1, 42, 0)
	unknown = append(unknown, make([]byte, 32)...)
	h.source.send(unknown)
	h.source.send(buildTelemetryDatagram(2, 0.5, 100))
	h.runToEOF(t)

	m := h.pipe.Metrics()
	assert.Equal(t, uint64(1), m.Unsupported.Load())
	assert.Equal(t, uint64(1), m.Decoded.Load())
	assert.Equal(t, uint64(1), h.writer.RowsWritten())
}

func TestPipelineSkipsMalformedAndMismatchedDatagrams(t *testing.T) {
	h := newHarness(t, false)

	// Shorter than the header.
	h.source.send([]byte{1, 2, 3})
	// Wrong declared format.
	bad := buildTelemetryDatagram(1, 0.5, 100)
	binary.LittleEndian.PutUint16(bad[0:2], 2021)
	h.source.send(bad)
	// Right header, truncated payload.
	short := buildTelemetryDatagram(2, 0.5, 100)
	h.source.send(short[:len(short)-10])
	// One good datagram keeps the loop provably alive.
	h.source.send(buildTelemetryDatagram(3, 1.0, 300))
	h.runToEOF(t)

	m := h.pipe.Metrics()
	assert.Equal(t, uint64(2), m.Malformed.Load())
	assert.Equal(t, uint64(1), m.LengthMismatch.Load())
	assert.Equal(t, uint64(1), m.Decoded.Load())
	assert.Equal(t, uint64(3), m.Skipped())
}

func TestPipelineCancelMidStreamLeavesCompleteFile(t *testing.T) {
	h := newHarness(t, false)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.pipe.Run(ctx) }()

	for i := 1; i <= 20; i++ {
		h.source.send(buildTelemetryDatagram(uint32(i), 0.5, 100))
	}

	// Wait until everything sent has been processed, then cancel.
	require.Eventually(t, func() bool {
		return h.pipe.Metrics().Decoded.Load() == 20
	}, 5*time.Second, 5*time.Millisecond)
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, h.pipe.State())

	rows := readRows(t, h.writer.Path())
	// csv.ReadAll fails on a truncated last line, so reaching here means
	// every row is complete.
	assert.Equal(t, int(h.writer.RowsWritten()), len(rows)-1)
}

func TestPipelineEmptySessionLeavesHeaderOnlyFile(t *testing.T) {
	h := newHarness(t, false)
	h.runToEOF(t)

	rows := readRows(t, h.writer.Path())
	assert.Len(t, rows, 1)
	assert.Equal(t, uint64(0), h.writer.RowsWritten())
	assert.Equal(t, StateClosed, h.pipe.State())
}

func TestPipelineWritesSummarySidecar(t *testing.T) {
	h := newHarness(t, true)
	h.source.send(buildTelemetryDatagram(1, 0.25, 180))
	h.runToEOF(t)

	_, err := os.Stat(h.writer.Path() + ".summary.yaml")
	assert.NoError(t, err)

	s := h.pipe.Summary()
	assert.Equal(t, uint64(1), s.Received)
	assert.Equal(t, uint64(1), s.RowsWritten)
	require.Len(t, s.ByType, 1)
	assert.Equal(t, telemetry.PacketCarTelemetry, s.ByType[0].ID)
	assert.Equal(t, "Car Telemetry", s.ByType[0].Name)
}

func TestPipelineDropOldestWhenQueueFull(t *testing.T) {
	// A pipeline that is never run lets us exercise enqueue directly.
	p := New(Config{
		QueueCapacity: 2,
	})

	p.enqueue(capture.Datagram{Data: []byte{1}})
	p.enqueue(capture.Datagram{Data: []byte{2}})
	p.enqueue(capture.Datagram{Data: []byte{3}})

	assert.Equal(t, uint64(1), p.metrics.Dropped.Load())
	// The oldest datagram was evicted; the newest survived.
	first := <-p.queue
	second := <-p.queue
	assert.Equal(t, []byte{2}, first.Data)
	assert.Equal(t, []byte{3}, second.Data)
}
