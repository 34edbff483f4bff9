package nitf

import (
	"bytes"
	"io"
)

// CommonSegment is the identity and metadata surface shared by every segment kind.
type CommonSegment interface {
	Kind() SegmentKind
	Identifier() string
	Title() string
	SecurityClassification() Classification
	DataLength() int64
}

// SegmentInfo carries the subheader fields common to all segments. Segment
// types embed it to satisfy CommonSegment.
type SegmentInfo struct {
	ID             string
	Name           string
	Classification Classification
	Payload        Payload
}

func (s *SegmentInfo) Identifier() string                     { return s.ID }
func (s *SegmentInfo) Title() string                          { return s.Name }
func (s *SegmentInfo) SecurityClassification() Classification { return s.Classification }
func (s *SegmentInfo) DataLength() int64                      { return s.Payload.Size }

// Payload is a borrowed view of a segment's data. The backing ReaderAt is
// owned by whoever produced the container.
type Payload struct {
	Data io.ReaderAt
	Size int64
}

// BytesPayload wraps an in-memory buffer.
func BytesPayload(b []byte) Payload {
	return Payload{Data: bytes.NewReader(b), Size: int64(len(b))}
}

// Stream returns a new reader positioned at the start of the payload. Each
// call returns an independent position, so streams may be handed to
// different goroutines.
func (p Payload) Stream() io.ReadSeeker {
	if p.Data == nil || p.Size <= 0 {
		return io.NewSectionReader(bytes.NewReader(nil), 0, 0)
	}
	return io.NewSectionReader(p.Data, 0, p.Size)
}

// Bytes copies the payload into memory.
func (p Payload) Bytes() ([]byte, error) {
	if p.Data == nil || p.Size <= 0 {
		return []byte{}, nil
	}
	buf := make([]byte, p.Size)
	if _, err := io.ReadFull(p.Stream(), buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Band describes one spectral band of an image segment.
type Band struct {
	Representation string `json:"representation" yaml:"representation"`
	Subcategory    string `json:"subcategory,omitempty" yaml:"subcategory"`
}

// Image modes describing how band samples are interleaved.
const (
	ModeBandInterleavedByBlock = "B"
	ModePixelInterleaved       = "P"
	ModeRowInterleaved         = "R"
	ModeBandSequential         = "S"
)

// Pixel value types.
const (
	PixelInteger       = "INT"
	PixelSignedInteger = "SI"
	PixelReal          = "R"
	PixelBiLevel       = "B"
)

// CompressionNone is the compression code for uncompressed pixel data.
const CompressionNone = "NC"

type ImageSegment struct {
	SegmentInfo
	Category                 string
	Rows                     int
	Columns                  int
	Bands                    []Band
	PixelValueType           string
	BitsPerPixel             int
	ActualBitsPerPixel       int
	PixelJustification       string
	Mode                     string
	BlocksPerRow             int
	BlocksPerColumn          int
	PixelsPerBlockHorizontal int
	PixelsPerBlockVertical   int
	Compression              string
	ImageDisplayLevel        int
	ImageAttachmentLevel     int
}

func (*ImageSegment) Kind() SegmentKind { return KindImage }

// Location is a row/column offset relative to the attachment parent.
type Location struct {
	Row    int `json:"row" yaml:"row"`
	Column int `json:"column" yaml:"column"`
}

type GraphicSegment struct {
	SegmentInfo
	DisplayLevel    int
	AttachmentLevel int
	Location        Location
	BoundLowerRight Location
}

func (*GraphicSegment) Kind() SegmentKind { return KindGraphic }

type TextSegment struct {
	SegmentInfo
	Format string
}

func (*TextSegment) Kind() SegmentKind { return KindText }

// Text returns the payload decoded as a string.
func (t *TextSegment) Text() (string, error) {
	b, err := t.Payload.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type LabelSegment struct {
	SegmentInfo
	Location        Location
	CellWidth       int
	CellHeight      int
	TextColor       string
	BackgroundColor string
	DisplayLevel    int
	AttachmentLevel int
}

func (*LabelSegment) Kind() SegmentKind { return KindLabel }

type SymbolSegment struct {
	SegmentInfo
	SymbolType      string
	DisplayLevel    int
	AttachmentLevel int
	Location        Location
}

func (*SymbolSegment) Kind() SegmentKind { return KindSymbol }

type DataExtensionSegment struct {
	SegmentInfo
	TypeID               string
	Version              int
	UserDefinedSubheader []byte
}

func (*DataExtensionSegment) Kind() SegmentKind { return KindDataExtension }
