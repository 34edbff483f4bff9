package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nitflow/internal/logger"
	"github.com/samcharles93/nitflow/internal/manifest"
	"github.com/samcharles93/nitflow/pkg/flow"
	"github.com/samcharles93/nitflow/pkg/nitf"
)

type segmentRow struct {
	Kind           string              `json:"kind"`
	Index          int                 `json:"index"`
	ID             string              `json:"id"`
	Title          string              `json:"title,omitempty"`
	Classification nitf.Classification `json:"classification,omitempty"`
	DataLength     int64               `json:"data_length"`
	Detail         string              `json:"detail,omitempty"`
}

type inspectReport struct {
	Manifest string         `json:"manifest"`
	FlowID   string         `json:"flow_id"`
	Header   nitf.Header    `json:"header"`
	Counts   map[string]int `json:"counts"`
	Segments []segmentRow   `json:"segments"`
}

func inspectCmd() *cli.Command {
	var (
		kinds  []string
		asJSON bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Walk the header and segments of a container manifest",
		Flags: []cli.Flag{
			manifestFlag(),
			&cli.StringSliceFlag{Name: "kind", Usage: "segment kinds to list (default: all)", Destination: &kinds},
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)

			path, err := resolveManifest()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			selected, err := parseKinds(kinds)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			fl, err := manifest.Open(path, manifest.WithLogger(log))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open manifest: %v", err), 1)
			}
			report, err := collect(fl, selected)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: inspect: %v", err), 1)
			}
			report.Manifest = path

			if asJSON {
				return writeJSON(os.Stdout, report)
			}
			printReport(os.Stdout, report)
			return nil
		},
	}
}

func parseKinds(raw []string) ([]nitf.SegmentKind, error) {
	var out []nitf.SegmentKind
	for _, r := range raw {
		for part := range strings.SplitSeq(r, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			k, err := nitf.ParseSegmentKind(part)
			if err != nil {
				return nil, err
			}
			if !slices.Contains(out, k) {
				out = append(out, k)
			}
		}
	}
	if len(out) == 0 {
		return nitf.Kinds, nil
	}
	return out, nil
}

// collect walks the header and each selected kind with one flow and ends it.
func collect(fl *flow.Flow, kinds []nitf.SegmentKind) (*inspectReport, error) {
	report := &inspectReport{
		FlowID:   fl.ID().String(),
		Counts:   make(map[string]int, len(kinds)),
		Segments: []segmentRow{},
	}
	fl = fl.WithHeader(func(h *nitf.Header) error {
		report.Header = *h
		return nil
	})
	for _, kind := range kinds {
		index := 0
		report.Counts[kind.String()] = 0
		fl = fl.ForEachSegment(kind, func(seg nitf.CommonSegment) error {
			report.Segments = append(report.Segments, segmentRow{
				Kind:           kind.String(),
				Index:          index,
				ID:             seg.Identifier(),
				Title:          seg.Title(),
				Classification: seg.SecurityClassification(),
				DataLength:     seg.DataLength(),
				Detail:         detail(seg),
			})
			report.Counts[kind.String()]++
			index++
			return nil
		})
	}
	if err := fl.End(); err != nil {
		return nil, err
	}
	return report, nil
}

func detail(seg nitf.CommonSegment) string {
	switch s := seg.(type) {
	case *nitf.ImageSegment:
		mode := s.Mode
		if mode == "" {
			mode = nitf.ModeBandSequential
		}
		comp := s.Compression
		if comp == "" {
			comp = nitf.CompressionNone
		}
		return fmt.Sprintf("%dx%d bands=%d %s/%d imode=%s ic=%s", s.Columns, s.Rows, len(s.Bands), s.PixelValueType, s.BitsPerPixel, mode, comp)
	case *nitf.TextSegment:
		return "format=" + s.Format
	case *nitf.DataExtensionSegment:
		return fmt.Sprintf("type=%s v%d", s.TypeID, s.Version)
	default:
		return ""
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(w io.Writer, r *inspectReport) {
	h := r.Header
	fmt.Fprintf(w, "Manifest: %s\n", r.Manifest)
	fmt.Fprintf(w, "Header: %s clevel=%d stype=%s class=%s length=%s\n",
		h.FormatVersion(), h.ComplexityLevel, h.StandardType, h.Classification, formatBytes(uint64(max(h.FileLength, 0))))
	section(w, "Header")
	row(w, "title", h.Title)
	row(w, "station", h.OriginatingStationID)
	if !h.DateTime.IsZero() {
		row(w, "date_time", h.DateTime.UTC().Format("2006-01-02 15:04:05Z"))
	}
	row(w, "originator", h.OriginatorName)
	row(w, "phone", h.OriginatorPhone)

	current := ""
	for _, s := range r.Segments {
		if s.Kind != current {
			current = s.Kind
			section(w, fmt.Sprintf("%s segments (%d)", s.Kind, r.Counts[s.Kind]))
		}
		fmt.Fprintf(w, "[%d] %-12s %-12s size=%-10s %s\n", s.Index, s.ID, s.Classification, formatBytes(uint64(s.DataLength)), s.Detail)
		if s.Title != "" {
			fmt.Fprintf(w, "    %s\n", s.Title)
		}
	}
}

func section(w io.Writer, title string) {
	line := strings.Repeat("-", len(title)+8)
	fmt.Fprintf(w, "\n%s\n--- %s ---\n%s\n", line, title, line)
}

func row(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%-24s %s\n", label+":", value)
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
