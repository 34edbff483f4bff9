// Package bandread defines the unit of pixel decoding work: read one sample for
// one band from the current position of a seekable stream.
//
// Concrete readers cover the uncompressed sample encodings an image segment can
// declare. All multi-byte samples are big-endian. Readers hold no state and
// may be shared, but a stream must only be read by one goroutine at a time.
package bandread

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/samcharles93/nitflow/pkg/nitf"
)

// Sample is any numeric type a band reader can produce.
type Sample interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32 | ~float64
}

// Reader reads one band sample at the current position of r. On failure it
// returns the zero value and an error wrapping nitf.ErrIOFailure.
type Reader[T Sample] interface {
	Read(r io.ReadSeeker) (T, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc[T Sample] func(r io.ReadSeeker) (T, error)

func (fn ReaderFunc[T]) Read(r io.ReadSeeker) (T, error) { return fn(r) }

// readN fills buf from r. Any short read is an IO failure; the buffer content
// is not returned to callers in that case.
func readN(r io.ReadSeeker, buf []byte) error {
	if r == nil {
		return fmt.Errorf("%w: nil stream", nitf.ErrIOFailure)
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("%w: read %d byte sample: %w", nitf.ErrIOFailure, len(buf), err)
	}
	return nil
}

type (
	Uint8   struct{}
	Int8    struct{}
	Uint16  struct{}
	Int16   struct{}
	Uint32  struct{}
	Int32   struct{}
	Uint64  struct{}
	Int64   struct{}
	Float32 struct{}
	Float64 struct{}
	// Bit reads a bi-level sample stored one per byte; any non-zero byte is 1.
	Bit struct{}
)

// PackedBit reads one bi-level sample from bit-packed data. Index selects the
// bit of the byte at the current position, 0 being the most significant.
type PackedBit struct {
	Index uint8
}

func (Uint8) Read(r io.ReadSeeker) (uint8, error) {
	var b [1]byte
	if err := readN(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (Int8) Read(r io.ReadSeeker) (int8, error) {
	v, err := Uint8{}.Read(r)
	return int8(v), err
}

func (Uint16) Read(r io.ReadSeeker) (uint16, error) {
	var b [2]byte
	if err := readN(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (Int16) Read(r io.ReadSeeker) (int16, error) {
	v, err := Uint16{}.Read(r)
	return int16(v), err
}

func (Uint32) Read(r io.ReadSeeker) (uint32, error) {
	var b [4]byte
	if err := readN(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func (Int32) Read(r io.ReadSeeker) (int32, error) {
	v, err := Uint32{}.Read(r)
	return int32(v), err
}

func (Uint64) Read(r io.ReadSeeker) (uint64, error) {
	var b [8]byte
	if err := readN(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func (Int64) Read(r io.ReadSeeker) (int64, error) {
	v, err := Uint64{}.Read(r)
	return int64(v), err
}

func (Float32) Read(r io.ReadSeeker) (float32, error) {
	u, err := Uint32{}.Read(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (Float64) Read(r io.ReadSeeker) (float64, error) {
	u, err := Uint64{}.Read(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

func (Bit) Read(r io.ReadSeeker) (uint8, error) {
	v, err := Uint8{}.Read(r)
	if err != nil {
		return 0, err
	}
	if v != 0 {
		return 1, nil
	}
	return 0, nil
}

func (p PackedBit) Read(r io.ReadSeeker) (uint8, error) {
	v, err := Uint8{}.Read(r)
	if err != nil {
		return 0, err
	}
	return (v >> (7 - p.Index&7)) & 1, nil
}
