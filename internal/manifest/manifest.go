// Package manifest supplies parsed containers to flows. A manifest is the
// description a parser leaves behind: the file header, per-kind segment
// subheaders, and payload files that are memory-mapped on load.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/nitflow/internal/logger"
	"github.com/samcharles93/nitflow/pkg/flow"
	"github.com/samcharles93/nitflow/pkg/nitf"
)

var ErrUnknownFormat = errors.New("manifest: unknown format")

// File is a loaded manifest and the payload mappings backing its container.
// The container stays valid until Close.
type File struct {
	path      string
	container *nitf.Container
	mappings  []*mapping
	log       logger.Logger
}

type Option func(*options)

type options struct {
	log logger.Logger
}

// WithLogger sets the logger used while loading and for flows handed out by
// the File.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Decode parses a manifest document. format is "yaml" or "json".
func Decode(data []byte, format string) (*Document, error) {
	var doc Document
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("manifest: decode yaml: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("manifest: decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &doc, nil
}

// FormatOf infers the manifest format from a file extension.
func FormatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
	}
}

// Load reads the manifest at path and maps every payload it names.
func Load(path string, opts ...Option) (*File, error) {
	o := options{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}

	f := &File{path: path, log: o.log.With("manifest", path)}
	c, err := f.build(doc, filepath.Dir(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	f.container = c
	f.log.Debug("manifest loaded",
		"images", len(c.Images),
		"graphics", len(c.Graphics),
		"texts", len(c.Texts),
		"labels", len(c.Labels),
		"symbols", len(c.Symbols),
		"data_extensions", len(c.DataExtensions),
		"mapped_payloads", len(f.mappings),
	)
	return f, nil
}

// Open loads a manifest and returns a flow whose End closes it.
func Open(path string, opts ...Option) (*flow.Flow, error) {
	f, err := Load(path, opts...)
	if err != nil {
		return nil, err
	}
	fl, err := flow.New(f.container, f.Close, flow.WithLogger(f.log))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return fl, nil
}

// Path is the manifest location.
func (f *File) Path() string { return f.path }

// Container returns the parsed container. It must not be used after Close.
func (f *File) Container() *nitf.Container { return f.container }

// Flow returns a new flow over the container. Ending the flow leaves the
// File open so further flows can be created.
func (f *File) Flow() (*flow.Flow, error) {
	if f == nil || f.container == nil {
		return nil, fmt.Errorf("%w: manifest is closed", nitf.ErrInvalidArgument)
	}
	return flow.New(f.container, nil, flow.WithLogger(f.log))
}

// Close releases every payload mapping.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, m := range f.mappings {
		if err := m.close(); err != nil {
			errs = append(errs, fmt.Errorf("unmap %s: %w", m.path, err))
		}
	}
	f.mappings = nil
	f.container = nil
	return errors.Join(errs...)
}

func (f *File) build(doc *Document, dir string) (*nitf.Container, error) {
	c := &nitf.Container{FileHeader: doc.Header}

	for i, e := range doc.Images {
		info, err := f.info(e.SegmentEntry, dir, "")
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		actual := e.ActualBitsPerPixel
		if actual == 0 {
			actual = e.BitsPerPixel
		}
		c.Images = append(c.Images, &nitf.ImageSegment{
			SegmentInfo:              info,
			Category:                 e.Category,
			Rows:                     e.Rows,
			Columns:                  e.Columns,
			Bands:                    e.Bands,
			PixelValueType:           e.PixelValueType,
			BitsPerPixel:             e.BitsPerPixel,
			ActualBitsPerPixel:       actual,
			PixelJustification:       e.PixelJustification,
			Mode:                     e.Mode,
			BlocksPerRow:             e.BlocksPerRow,
			BlocksPerColumn:          e.BlocksPerColumn,
			PixelsPerBlockHorizontal: e.PixelsPerBlockHorizontal,
			PixelsPerBlockVertical:   e.PixelsPerBlockVertical,
			Compression:              e.Compression,
			ImageDisplayLevel:        e.DisplayLevel,
			ImageAttachmentLevel:     e.AttachmentLevel,
		})
	}

	for i, e := range doc.Graphics {
		info, err := f.info(e.SegmentEntry, dir, "")
		if err != nil {
			return nil, fmt.Errorf("graphic %d: %w", i, err)
		}
		c.Graphics = append(c.Graphics, &nitf.GraphicSegment{
			SegmentInfo:     info,
			DisplayLevel:    e.DisplayLevel,
			AttachmentLevel: e.AttachmentLevel,
			Location:        e.Location,
			BoundLowerRight: e.BoundLowerRight,
		})
	}

	for i, e := range doc.Texts {
		info, err := f.info(e.SegmentEntry, dir, e.Text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		c.Texts = append(c.Texts, &nitf.TextSegment{SegmentInfo: info, Format: e.Format})
	}

	for i, e := range doc.Labels {
		info, err := f.info(e.SegmentEntry, dir, e.Text)
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		}
		c.Labels = append(c.Labels, &nitf.LabelSegment{
			SegmentInfo:     info,
			Location:        e.Location,
			CellWidth:       e.CellWidth,
			CellHeight:      e.CellHeight,
			TextColor:       e.TextColor,
			BackgroundColor: e.BackgroundColor,
			DisplayLevel:    e.DisplayLevel,
			AttachmentLevel: e.AttachmentLevel,
		})
	}

	for i, e := range doc.Symbols {
		info, err := f.info(e.SegmentEntry, dir, "")
		if err != nil {
			return nil, fmt.Errorf("symbol %d: %w", i, err)
		}
		c.Symbols = append(c.Symbols, &nitf.SymbolSegment{
			SegmentInfo:     info,
			SymbolType:      e.SymbolType,
			DisplayLevel:    e.DisplayLevel,
			AttachmentLevel: e.AttachmentLevel,
			Location:        e.Location,
		})
	}

	for i, e := range doc.DataExtensions {
		info, err := f.info(e.SegmentEntry, dir, "")
		if err != nil {
			return nil, fmt.Errorf("data extension %d: %w", i, err)
		}
		var sub []byte
		if e.UserSubheader != "" {
			sub = []byte(e.UserSubheader)
		}
		c.DataExtensions = append(c.DataExtensions, &nitf.DataExtensionSegment{
			SegmentInfo:          info,
			TypeID:               e.TypeID,
			Version:              e.Version,
			UserDefinedSubheader: sub,
		})
	}

	return c, nil
}

// info resolves an entry's payload. A data file wins over inline text.
func (f *File) info(e SegmentEntry, dir, inline string) (nitf.SegmentInfo, error) {
	info := nitf.SegmentInfo{
		ID:             e.ID,
		Name:           e.Title,
		Classification: e.Classification,
	}
	switch {
	case e.Data != "":
		path := e.Data
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		m, err := mapFile(path)
		if err != nil {
			return info, err
		}
		f.mappings = append(f.mappings, m)
		info.Payload = nitf.Payload{Data: m.reader(), Size: int64(len(m.data))}
	case inline != "":
		info.Payload = nitf.BytesPayload([]byte(inline))
	default:
		info.Payload = nitf.BytesPayload(nil)
	}
	return info, nil
}
