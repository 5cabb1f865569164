// Package pipeline wires capture, decoding, assembly and the writer
// together and supervises their lifecycle and cancellation.
package pipeline

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"gridlog/internal/capture"
	"gridlog/internal/config"
	"gridlog/internal/log"
	"gridlog/internal/record"
	"gridlog/internal/sink"
	"gridlog/internal/telemetry"
)

// State is the controller's lifecycle state.
type State int32

const (
	StateInit State = iota
	StateListening
	StateStopping
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateListening:
		return "LISTENING"
	case StateStopping:
		return "STOPPING"
	case StateClosed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

// progressEvery is how many decoded packets pass between progress logs.
const progressEvery = 500

// Config assembles a pipeline from its already-constructed stages. The
// writer must be opened before the source is bound; the cmd layer
// enforces that ordering.
type Config struct {
	Source    capture.Source
	Registry  *telemetry.Registry
	Assembler *record.Assembler
	Writer    *sink.Writer
	Format    telemetry.Format

	QueueCapacity int
	DropPolicy    string

	Track        string
	StartedAt    time.Time
	WriteSummary bool
}

// Pipeline runs one capture session: a capture goroutine feeding a
// bounded queue and a process goroutine that decodes, assembles and
// writes. The writer and session state are owned by the process
// goroutine only.
type Pipeline struct {
	cfg     Config
	queue   chan capture.Datagram
	metrics *Metrics
	logger  log.Logger

	state atomicState
	wg    sync.WaitGroup
}

// New creates a pipeline in StateInit.
func New(cfg Config) *Pipeline {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 1024
	}
	if cfg.DropPolicy == "" {
		cfg.DropPolicy = config.DropOldest
	}
	return &Pipeline{
		cfg:     cfg,
		queue:   make(chan capture.Datagram, cfg.QueueCapacity),
		metrics: &Metrics{},
		logger:  log.GetLogger(),
	}
}

// Metrics exposes the run counters.
func (p *Pipeline) Metrics() *Metrics { return p.metrics }

// State returns the current lifecycle state.
func (p *Pipeline) State() State { return p.state.load() }

// Run executes the session until ctx is cancelled, the source is
// exhausted, or a fatal write error occurs. On every exit path the
// queue is drained, the writer is flushed and closed, the source is
// closed, and a summary is emitted. The returned error is nil only for
// a clean stop.
func (p *Pipeline) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.transition(StateListening)

	p.wg.Add(1)
	go p.captureLoop(runCtx)

	fatal := p.processLoop()
	if fatal != nil {
		// Stop the capture side; enqueue never blocks, so the loop
		// exits within one receive timeout.
		cancel()
	}

	p.transition(StateStopping)
	p.wg.Wait()
	p.drain()

	if err := p.cfg.Writer.Close(); err != nil {
		p.logger.WithError(err).Error("failed to flush and close output file")
		if fatal == nil {
			fatal = err
		}
	}
	if err := p.cfg.Source.Close(); err != nil {
		p.logger.WithError(err).Warn("failed to close source")
	}

	p.transition(StateClosed)
	p.emitSummary()
	return fatal
}

// captureLoop receives datagrams and enqueues them until cancellation or
// end of source, then closes the queue.
func (p *Pipeline) captureLoop(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.queue)

	for {
		if ctx.Err() != nil {
			return
		}

		d, err := p.cfg.Source.Receive()
		switch {
		case err == nil:
		case errors.Is(err, capture.ErrTimeout):
			continue
		case errors.Is(err, io.EOF):
			return
		default:
			if ctx.Err() != nil {
				return
			}
			p.logger.WithError(err).Warn("receive failed")
			continue
		}

		p.metrics.Received.Add(1)
		p.enqueue(d)
	}
}

// enqueue never blocks. When the queue is full the configured drop
// policy decides which datagram is sacrificed; UDP delivery is lossy
// anyway, and blocking the listener would only move the loss upstream.
func (p *Pipeline) enqueue(d capture.Datagram) {
	select {
	case p.queue <- d:
		return
	default:
	}

	if p.cfg.DropPolicy == config.DropNewest {
		p.metrics.Dropped.Add(1)
		return
	}

	// Drop-oldest: evict the head to make room for the newest.
	select {
	case <-p.queue:
		p.metrics.Dropped.Add(1)
	default:
	}
	select {
	case p.queue <- d:
	default:
		p.metrics.Dropped.Add(1)
	}
}

// processLoop consumes the queue until it is closed and drained. A
// write failure is fatal and returned; every decode failure is counted
// and skipped.
func (p *Pipeline) processLoop() error {
	for d := range p.queue {
		if err := p.process(d); err != nil {
			p.logger.WithError(err).Error("fatal write error, aborting session")
			return err
		}
	}
	return nil
}

// drain consumes whatever the capture loop enqueued after the process
// loop already returned, so the dequeue counters stay truthful. Rows
// are not written here; a fatal writer is not retried.
func (p *Pipeline) drain() {
	for range p.queue {
	}
}

// process handles one datagram end to end. Only write errors propagate.
func (p *Pipeline) process(d capture.Datagram) error {
	h, payload, err := telemetry.DecodeHeader(d.Data, p.cfg.Format)
	if err != nil {
		p.metrics.Malformed.Add(1)
		if p.logger.IsDebugEnabled() {
			p.logger.WithError(err).Debug("skipping datagram")
		}
		return nil
	}
	p.metrics.byType[h.PacketID].Add(1)

	pl, err := p.cfg.Registry.Decode(payload, &h)
	switch {
	case errors.Is(err, telemetry.ErrUnsupportedPacket):
		p.metrics.Unsupported.Add(1)
		return nil
	case errors.Is(err, telemetry.ErrLengthMismatch):
		p.metrics.LengthMismatch.Add(1)
		if p.logger.IsDebugEnabled() {
			p.logger.WithError(err).Debug("skipping datagram")
		}
		return nil
	case err != nil:
		p.metrics.Malformed.Add(1)
		p.logger.WithError(err).Debug("skipping datagram")
		return nil
	}

	sample, err := p.cfg.Assembler.Assemble(&h, pl, d.ReceivedAt)
	if err != nil {
		p.metrics.Malformed.Add(1)
		p.logger.WithError(err).Debug("skipping datagram")
		return nil
	}

	if err := p.cfg.Writer.Write(sample); err != nil {
		return err
	}

	if n := p.metrics.Decoded.Add(1); n%progressEvery == 0 {
		p.logger.Infof("recorded %d packets (%d rows flushed)", n, p.cfg.Writer.RowsWritten())
	}
	return nil
}

func (p *Pipeline) transition(s State) {
	prev := p.state.swap(s)
	p.logger.Debugf("controller %s -> %s", prev, s)
}
