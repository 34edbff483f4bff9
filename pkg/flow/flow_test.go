package flow

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/samcharles93/nitflow/internal/logger"
	"github.com/samcharles93/nitflow/pkg/nitf"
)

func testContainer() *nitf.Container {
	return &nitf.Container{
		FileHeader: nitf.Header{Profile: "NITF", Version: "02.10", Title: "fixture"},
		Images: []*nitf.ImageSegment{
			{SegmentInfo: nitf.SegmentInfo{ID: "IMG-A"}},
			{SegmentInfo: nitf.SegmentInfo{ID: "IMG-B"}},
		},
		Graphics: []*nitf.GraphicSegment{
			{SegmentInfo: nitf.SegmentInfo{ID: "GR-A"}},
		},
		Labels: []*nitf.LabelSegment{},
		Symbols: []*nitf.SymbolSegment{
			{SegmentInfo: nitf.SegmentInfo{ID: "SY-A"}},
			{SegmentInfo: nitf.SegmentInfo{ID: "SY-B"}},
			{SegmentInfo: nitf.SegmentInfo{ID: "SY-C"}},
		},
		DataExtensions: []*nitf.DataExtensionSegment{
			{SegmentInfo: nitf.SegmentInfo{ID: "DES-A"}, TypeID: "TRE_OVERFLOW"},
		},
	}
}

func mustNew(t *testing.T, src nitf.DataSource, finalize func() error) *Flow {
	t.Helper()
	f, err := New(src, finalize)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	return f
}

func TestNewRejectsMissingDataSource(t *testing.T) {
	t.Parallel()

	var typedNil *nitf.Container
	for name, src := range map[string]nitf.DataSource{
		"nil interface": nil,
		"typed nil":     typedNil,
	} {
		f, err := New(src, nil)
		if !errors.Is(err, nitf.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
		if f != nil {
			t.Fatalf("%s: expected nil flow", name)
		}
	}
}

func TestScenarioHeaderImagesTexts(t *testing.T) {
	t.Parallel()

	src := &nitf.Container{
		Images: []*nitf.ImageSegment{
			{SegmentInfo: nitf.SegmentInfo{ID: "first"}},
			{SegmentInfo: nitf.SegmentInfo{ID: "second"}},
		},
	}
	var (
		events  []string
		count   int
		images  []*nitf.ImageSegment
		texts   []*nitf.TextSegment
		endRuns int
	)
	f := mustNew(t, src, func() error {
		endRuns++
		events = append(events, "end")
		return nil
	})

	err := f.
		WithHeader(func(*nitf.Header) error {
			count++
			events = append(events, "header")
			return nil
		}).
		ForEachImageSegment(func(s *nitf.ImageSegment) error {
			images = append(images, s)
			events = append(events, "image:"+s.Identifier())
			return nil
		}).
		ForEachTextSegment(func(s *nitf.TextSegment) error {
			texts = append(texts, s)
			return nil
		}).
		End()
	if err != nil {
		t.Fatalf("end: %v", err)
	}

	if count != 1 {
		t.Fatalf("header calls: got %d want 1", count)
	}
	if len(images) != 2 || images[0] != src.Images[0] || images[1] != src.Images[1] {
		t.Fatalf("images not visited in stored order: %v", images)
	}
	if len(texts) != 0 {
		t.Fatalf("texts: got %d want 0", len(texts))
	}
	if endRuns != 1 {
		t.Fatalf("finalizer runs: got %d want 1", endRuns)
	}
	want := []string{"header", "image:first", "image:second", "end"}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events: got %v want %v", events, want)
	}
}

func TestForEachVisitsEveryKindInOrder(t *testing.T) {
	t.Parallel()

	src := testContainer()
	var got []string
	visit := func(s nitf.CommonSegment) { got = append(got, s.Identifier()) }

	err := mustNew(t, src, nil).
		ForEachImageSegment(func(s *nitf.ImageSegment) error { visit(s); return nil }).
		ForEachGraphicSegment(func(s *nitf.GraphicSegment) error { visit(s); return nil }).
		ForEachTextSegment(func(s *nitf.TextSegment) error { visit(s); return nil }).
		ForEachLabelSegment(func(s *nitf.LabelSegment) error { visit(s); return nil }).
		ForEachSymbolSegment(func(s *nitf.SymbolSegment) error { visit(s); return nil }).
		ForEachDataExtensionSegment(func(s *nitf.DataExtensionSegment) error { visit(s); return nil }).
		End()
	if err != nil {
		t.Fatalf("end: %v", err)
	}

	want := []string{"IMG-A", "IMG-B", "GR-A", "SY-A", "SY-B", "SY-C", "DES-A"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("visit order: got %v want %v", got, want)
	}
}

func TestForEachSegmentMatchesSourceCounts(t *testing.T) {
	t.Parallel()

	src := testContainer()
	for _, kind := range nitf.Kinds {
		var ids []string
		f := mustNew(t, src, nil)
		f.ForEachSegment(kind, func(s nitf.CommonSegment) error {
			if s.Kind() != kind {
				t.Errorf("%s: got segment of kind %s", kind, s.Kind())
			}
			ids = append(ids, s.Identifier())
			return nil
		})
		if err := f.End(); err != nil {
			t.Fatalf("%s: end: %v", kind, err)
		}

		var want []string
		for _, s := range nitf.Segments(src, kind) {
			want = append(want, s.Identifier())
		}
		if !reflect.DeepEqual(ids, want) {
			t.Fatalf("%s: got %v want %v", kind, ids, want)
		}
	}
}

func TestAbsentInputsAreNoOps(t *testing.T) {
	t.Parallel()

	f := mustNew(t, &nitf.Container{}, nil)
	calls := 0
	same := f.
		WithHeader(nil).
		WithDataSource(nil).
		ForEachImageSegment(nil).
		ForEachTextSegment(func(*nitf.TextSegment) error { calls++; return nil }).
		ForEachLabelSegment(func(*nitf.LabelSegment) error { calls++; return nil }).
		ForEachSegment(nitf.KindSymbol, func(nitf.CommonSegment) error { calls++; return nil }).
		ForEachSegment(nitf.SegmentKind(99), func(nitf.CommonSegment) error { calls++; return nil })
	if same != f {
		t.Fatalf("chained calls returned a different flow")
	}
	if calls != 0 {
		t.Fatalf("expected no calls on empty container, got %d", calls)
	}
	if err := f.End(); err != nil {
		t.Fatalf("end with nil finalizer: %v", err)
	}
}

func TestWithHeaderAndDataSource(t *testing.T) {
	t.Parallel()

	src := testContainer()
	var (
		header *nitf.Header
		got    nitf.DataSource
	)
	f := mustNew(t, src, nil).
		WithHeader(func(h *nitf.Header) error { header = h; return nil }).
		WithDataSource(func(ds nitf.DataSource) error { got = ds; return nil })
	if err := f.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if header != &src.FileHeader {
		t.Fatalf("header: got %p want %p", header, &src.FileHeader)
	}
	if got != nitf.DataSource(src) {
		t.Fatalf("data source was not passed through")
	}
}

func TestActionErrorStopsLaterPasses(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := testContainer()
	var (
		seen      []string
		finalized int
	)
	f := mustNew(t, src, func() error { finalized++; return nil })
	f.ForEachImageSegment(func(s *nitf.ImageSegment) error {
		seen = append(seen, s.Identifier())
		return boom
	}).ForEachSymbolSegment(func(s *nitf.SymbolSegment) error {
		seen = append(seen, s.Identifier())
		return nil
	})

	if f.Err() != boom {
		t.Fatalf("Err: got %v want %v", f.Err(), boom)
	}
	if err := f.End(); err != boom {
		t.Fatalf("End: got %v want the action error unchanged", err)
	}
	if !reflect.DeepEqual(seen, []string{"IMG-A"}) {
		t.Fatalf("seen: got %v", seen)
	}
	if finalized != 1 {
		t.Fatalf("finalizer runs: got %d want 1", finalized)
	}
}

func TestStopEndsOnlyCurrentPass(t *testing.T) {
	t.Parallel()

	src := testContainer()
	var seen []string
	f := mustNew(t, src, nil).
		ForEachSymbolSegment(func(s *nitf.SymbolSegment) error {
			seen = append(seen, s.Identifier())
			if s.Identifier() == "SY-B" {
				return ErrStop
			}
			return nil
		}).
		ForEachDataExtensionSegment(func(s *nitf.DataExtensionSegment) error {
			seen = append(seen, s.Identifier())
			return nil
		})
	if err := f.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	want := []string{"SY-A", "SY-B", "DES-A"}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("seen: got %v want %v", seen, want)
	}
}

func TestUseAfterEnd(t *testing.T) {
	t.Parallel()

	finalized := 0
	f := mustNew(t, testContainer(), func() error { finalized++; return nil })
	if err := f.End(); err != nil {
		t.Fatalf("first end: %v", err)
	}

	calls := 0
	f.WithHeader(func(*nitf.Header) error { calls++; return nil }).
		ForEachImageSegment(func(*nitf.ImageSegment) error { calls++; return nil })
	if calls != 0 {
		t.Fatalf("expected no calls after end, got %d", calls)
	}
	if !errors.Is(f.Err(), ErrEnded) {
		t.Fatalf("Err after misuse: got %v want ErrEnded", f.Err())
	}
	if err := f.End(); !errors.Is(err, ErrEnded) {
		t.Fatalf("second end: got %v want ErrEnded", err)
	}
	if finalized != 1 {
		t.Fatalf("finalizer runs: got %d want 1", finalized)
	}
}

func TestFinalizerErrorIsReported(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("close failed")
	actionErr := errors.New("action failed")

	err := mustNew(t, testContainer(), func() error { return closeErr }).End()
	if !errors.Is(err, closeErr) {
		t.Fatalf("got %v want %v", err, closeErr)
	}

	err = mustNew(t, testContainer(), func() error { return closeErr }).
		WithHeader(func(*nitf.Header) error { return actionErr }).
		End()
	if !errors.Is(err, closeErr) || !errors.Is(err, actionErr) {
		t.Fatalf("expected both errors, got %v", err)
	}
}

func TestActionPanicPropagates(t *testing.T) {
	t.Parallel()

	f := mustNew(t, testContainer(), nil)
	defer func() {
		if r := recover(); r != "kaboom" {
			t.Fatalf("recovered %v, want kaboom", r)
		}
	}()
	f.ForEachImageSegment(func(*nitf.ImageSegment) error { panic("kaboom") })
	t.Fatal("panic did not propagate")
}

func TestFlowsHaveDistinctIDs(t *testing.T) {
	t.Parallel()

	src := testContainer()
	a := mustNew(t, src, nil)
	b := mustNew(t, src, nil)
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct flow ids, both %s", a.ID())
	}
}

func TestWithLoggerRecordsPasses(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fl, err := New(testContainer(), nil, WithLogger(logger.JSON(&buf, slog.LevelDebug)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = fl.ForEachImageSegment(func(*nitf.ImageSegment) error { return nil }).End()
	if err != nil {
		t.Fatalf("End: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"msg":"segment pass"`, `"kind":"image"`, `"segments":2`, `"msg":"flow ended"`, `"flow":"` + fl.ID().String() + `"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output, got: %s", want, out)
		}
	}
}
