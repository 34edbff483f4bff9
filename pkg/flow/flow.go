// Package flow walks the contents of a parsed container and hands each part to
// caller supplied functions.
//
// A Flow is a chain of synchronous passes. Each call runs to completion over
// one in-memory sequence before it returns, so passes happen in the order they
// are written:
//
//	err := fl.
//		WithHeader(printHeader).
//		ForEachImageSegment(indexImage).
//		ForEachTextSegment(indexText).
//		End()
//
// Missing sequences and nil functions are skipped silently. The first error
// returned by a caller function is kept, later passes are skipped, and End
// reports it after running the finalizer.
//
// A Flow is confined to the goroutine that owns it and holds no lock. Separate
// flows over the same DataSource may run concurrently because the DataSource
// is only read.
package flow

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/samcharles93/nitflow/internal/logger"
	"github.com/samcharles93/nitflow/pkg/nitf"
)

var (
	// ErrStop may be returned by a caller function to end the current pass
	// early. It is not recorded as a failure.
	ErrStop = errors.New("flow: stop")
	// ErrEnded is recorded when a Flow is used after End.
	ErrEnded = errors.New("flow: used after end")
)

type state uint8

const (
	stateOpen state = iota
	stateEnded
)

// Flow is a chainable traversal over one DataSource.
type Flow struct {
	id       uuid.UUID
	src      nitf.DataSource
	finalize func() error
	log      logger.Logger
	state    state
	err      error
}

// Option configures a Flow.
type Option func(*Flow)

// WithLogger sets the logger used for per-pass debug records.
func WithLogger(l logger.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.log = l
		}
	}
}

// New binds a Flow to src. finalize runs once when End is called and may be nil.
func New(src nitf.DataSource, finalize func() error, opts ...Option) (*Flow, error) {
	if isNil(src) {
		return nil, fmt.Errorf("%w: flow requires a data source", nitf.ErrInvalidArgument)
	}
	f := &Flow{
		id:       uuid.New(),
		src:      src,
		finalize: finalize,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.With("flow", f.id)
	return f, nil
}

func isNil(src nitf.DataSource) bool {
	if src == nil {
		return true
	}
	if c, ok := src.(*nitf.Container); ok && c == nil {
		return true
	}
	return false
}

// ID identifies this flow in log records.
func (f *Flow) ID() uuid.UUID { return f.id }

// Err returns the first error recorded by the flow, if any.
func (f *Flow) Err() error { return f.err }

// WithHeader passes the container header to fn.
func (f *Flow) WithHeader(fn func(*nitf.Header) error) *Flow {
	if !f.ready() || fn == nil {
		return f
	}
	f.record(fn(f.src.Header()))
	return f
}

// WithDataSource passes the underlying DataSource to fn.
func (f *Flow) WithDataSource(fn func(nitf.DataSource) error) *Flow {
	if !f.ready() || fn == nil {
		return f
	}
	f.record(fn(f.src))
	return f
}

// ForEachImageSegment passes each image segment to fn in stored order.
func (f *Flow) ForEachImageSegment(fn func(*nitf.ImageSegment) error) *Flow {
	return forEach(f, nitf.KindImage, f.src.ImageSegments, fn)
}

// ForEachDataExtensionSegment passes each data extension segment to fn in stored order.
func (f *Flow) ForEachDataExtensionSegment(fn func(*nitf.DataExtensionSegment) error) *Flow {
	return forEach(f, nitf.KindDataExtension, f.src.DataExtensionSegments, fn)
}

// ForEachTextSegment passes each text segment to fn in stored order.
func (f *Flow) ForEachTextSegment(fn func(*nitf.TextSegment) error) *Flow {
	return forEach(f, nitf.KindText, f.src.TextSegments, fn)
}

// ForEachGraphicSegment passes each graphic segment to fn in stored order.
func (f *Flow) ForEachGraphicSegment(fn func(*nitf.GraphicSegment) error) *Flow {
	return forEach(f, nitf.KindGraphic, f.src.GraphicSegments, fn)
}

// ForEachLabelSegment passes each label segment to fn in stored order.
func (f *Flow) ForEachLabelSegment(fn func(*nitf.LabelSegment) error) *Flow {
	return forEach(f, nitf.KindLabel, f.src.LabelSegments, fn)
}

// ForEachSymbolSegment passes each symbol segment to fn in stored order.
func (f *Flow) ForEachSymbolSegment(fn func(*nitf.SymbolSegment) error) *Flow {
	return forEach(f, nitf.KindSymbol, f.src.SymbolSegments, fn)
}

// ForEachSegment visits the segments of one kind through the common capability.
func (f *Flow) ForEachSegment(kind nitf.SegmentKind, fn func(nitf.CommonSegment) error) *Flow {
	return forEach(f, kind, func() []nitf.CommonSegment { return nitf.Segments(f.src, kind) }, fn)
}

// End runs the finalizer and closes the flow. It returns the first caller
// error joined with any finalizer error. A second End does not run the
// finalizer again and returns ErrEnded.
func (f *Flow) End() error {
	if f.state == stateEnded {
		return ErrEnded
	}
	f.state = stateEnded
	var ferr error
	if f.finalize != nil {
		ferr = f.finalize()
	}
	f.log.Debug("flow ended", "failed", f.err != nil || ferr != nil)
	if ferr == nil {
		return f.err
	}
	return errors.Join(f.err, ferr)
}

func (f *Flow) ready() bool {
	if f.state == stateEnded {
		if f.err == nil {
			f.err = ErrEnded
		}
		return false
	}
	return f.err == nil
}

func (f *Flow) record(err error) {
	if err != nil && !errors.Is(err, ErrStop) && f.err == nil {
		f.err = err
	}
}

// forEach runs fn over the sequence returned by segments. The sequence is only
// fetched once the flow is known to be usable.
func forEach[T any](f *Flow, kind nitf.SegmentKind, segments func() []T, fn func(T) error) *Flow {
	if !f.ready() || fn == nil {
		return f
	}
	seq := segments()
	if len(seq) == 0 {
		return f
	}
	f.log.Debug("segment pass", "kind", kind.String(), "segments", len(seq))
	for i, s := range seq {
		err := fn(s)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrStop) {
			f.log.Debug("segment pass stopped", "kind", kind.String(), "index", i)
			return f
		}
		f.record(err)
		return f
	}
	return f
}
