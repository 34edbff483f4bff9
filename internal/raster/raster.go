// Package raster locates band samples inside uncompressed image segment data
// and reads them with a bandread.Reader.
package raster

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samcharles93/nitflow/pkg/bandread"
	"github.com/samcharles93/nitflow/pkg/nitf"
)

var (
	ErrCompressed  = errors.New("raster: compressed image data")
	ErrOutOfBounds = errors.New("raster: pixel out of bounds")
	ErrBadLayout   = errors.New("raster: invalid image layout")
)

// Sampler maps (row, column, band) to byte offsets for one image segment.
// Bit-packed bi-level data is addressed by bit, most significant bit first.
type Sampler struct {
	format bandread.Format
	read   bandread.Reader[float64]
	mode   string

	rows, cols, bands int

	blocksPerRow int
	blockWidth   int
	blockHeight  int
	blockCount   int
	sampleBits   int64
}

// NewSampler checks that seg describes uncompressed data with a supported
// sample format and derives its block geometry. A segment without blocking
// fields is treated as a single block.
func NewSampler(seg *nitf.ImageSegment) (*Sampler, error) {
	if seg == nil {
		return nil, fmt.Errorf("%w: nil image segment", nitf.ErrInvalidArgument)
	}
	if c := strings.ToUpper(strings.TrimSpace(seg.Compression)); c != "" && c != nitf.CompressionNone {
		return nil, fmt.Errorf("%w: %s", ErrCompressed, c)
	}
	format, err := bandread.FormatFor(seg.PixelValueType, seg.BitsPerPixel)
	if err != nil {
		return nil, err
	}
	if seg.Rows <= 0 || seg.Columns <= 0 || len(seg.Bands) == 0 {
		return nil, fmt.Errorf("%w: %dx%d with %d bands", ErrBadLayout, seg.Rows, seg.Columns, len(seg.Bands))
	}

	mode := strings.ToUpper(strings.TrimSpace(seg.Mode))
	switch mode {
	case "":
		mode = nitf.ModeBandSequential
	case nitf.ModeBandInterleavedByBlock, nitf.ModePixelInterleaved, nitf.ModeRowInterleaved, nitf.ModeBandSequential:
	default:
		return nil, fmt.Errorf("%w: image mode %q", ErrBadLayout, seg.Mode)
	}

	s := &Sampler{
		format:     format,
		read:       bandread.Select(format),
		mode:       mode,
		rows:       seg.Rows,
		cols:       seg.Columns,
		bands:      len(seg.Bands),
		sampleBits: int64(format.Bits()),
	}

	s.blockWidth = orDefault(seg.PixelsPerBlockHorizontal, seg.Columns)
	s.blockHeight = orDefault(seg.PixelsPerBlockVertical, seg.Rows)
	s.blocksPerRow = orDefault(seg.BlocksPerRow, ceilDiv(seg.Columns, s.blockWidth))
	blocksPerCol := orDefault(seg.BlocksPerColumn, ceilDiv(seg.Rows, s.blockHeight))
	if s.blocksPerRow*s.blockWidth < s.cols || blocksPerCol*s.blockHeight < s.rows {
		return nil, fmt.Errorf("%w: %dx%d blocks of %dx%d do not cover %dx%d",
			ErrBadLayout, s.blocksPerRow, blocksPerCol, s.blockWidth, s.blockHeight, s.cols, s.rows)
	}
	s.blockCount = s.blocksPerRow * blocksPerCol
	return s, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Format is the sample encoding the sampler reads.
func (s *Sampler) Format() bandread.Format { return s.format }

// Bands is the number of bands per pixel.
func (s *Sampler) Bands() int { return s.bands }

// Size is the number of bytes the image data should occupy.
func (s *Sampler) Size() int64 {
	bits := int64(s.blockCount) * int64(s.blockWidth*s.blockHeight) * int64(s.bands) * s.sampleBits
	return (bits + 7) / 8
}

// Offset returns the byte offset of one band sample from the start of the
// image data. For packed bits it is the byte holding the sample.
func (s *Sampler) Offset(row, col, band int) (int64, error) {
	bit, err := s.bitOffset(row, col, band)
	if err != nil {
		return 0, err
	}
	return bit / 8, nil
}

func (s *Sampler) bitOffset(row, col, band int) (int64, error) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols || band < 0 || band >= s.bands {
		return 0, fmt.Errorf("%w: row %d col %d band %d in %dx%dx%d",
			ErrOutOfBounds, row, col, band, s.rows, s.cols, s.bands)
	}

	block := int64((row/s.blockHeight)*s.blocksPerRow + col/s.blockWidth)
	r := int64(row % s.blockHeight)
	c := int64(col % s.blockWidth)
	w := int64(s.blockWidth)
	nb := int64(s.bands)
	b := int64(band)
	blockSamples := w * int64(s.blockHeight)

	var sample int64
	switch s.mode {
	case nitf.ModePixelInterleaved:
		sample = block*blockSamples*nb + (r*w+c)*nb + b
	case nitf.ModeRowInterleaved:
		sample = block*blockSamples*nb + (r*nb+b)*w + c
	case nitf.ModeBandInterleavedByBlock:
		sample = block*blockSamples*nb + b*blockSamples + r*w + c
	default:
		sample = b*blockSamples*int64(s.blockCount) + block*blockSamples + r*w + c
	}
	return sample * s.sampleBits, nil
}

// Sample seeks to one band sample and reads it.
func (s *Sampler) Sample(rs io.ReadSeeker, row, col, band int) (float64, error) {
	bit, err := s.bitOffset(row, col, band)
	if err != nil {
		return 0, err
	}
	off := bit / 8
	if _, err := rs.Seek(off, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: seek to %d: %w", nitf.ErrIOFailure, off, err)
	}
	if s.format == bandread.FormatPackedBit {
		v, err := bandread.PackedBit{Index: uint8(bit % 8)}.Read(rs)
		return float64(v), err
	}
	return s.read.Read(rs)
}

// Pixel reads every band of one pixel.
func (s *Sampler) Pixel(rs io.ReadSeeker, row, col int) ([]float64, error) {
	out := make([]float64, s.bands)
	for b := range out {
		v, err := s.Sample(rs, row, col, b)
		if err != nil {
			return nil, err
		}
		out[b] = v
	}
	return out, nil
}

// Band calls yield for each pixel of one band in row-major order. Iteration
// stops at the first read error or when yield returns false.
func (s *Sampler) Band(rs io.ReadSeeker, band int, yield func(row, col int, v float64) bool) error {
	if band < 0 || band >= s.bands {
		return fmt.Errorf("%w: band %d of %d", ErrOutOfBounds, band, s.bands)
	}
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			v, err := s.Sample(rs, row, col, band)
			if err != nil {
				return err
			}
			if !yield(row, col, v) {
				return nil
			}
		}
	}
	return nil
}

// ReadBand returns one band as a row-major slice.
func (s *Sampler) ReadBand(rs io.ReadSeeker, band int) ([]float64, error) {
	out := make([]float64, 0, s.rows*s.cols)
	err := s.Band(rs, band, func(_, _ int, v float64) bool {
		out = append(out, v)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
