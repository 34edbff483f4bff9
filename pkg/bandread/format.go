package bandread

import (
	"fmt"
	"io"
	"strings"

	"github.com/samcharles93/nitflow/pkg/nitf"
)

// Format tags a sample storage convention. Pipelines pick a reader by tag
// rather than by inspecting the segment at read time.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatBit
	FormatUint8
	FormatInt8
	FormatUint16
	FormatInt16
	FormatUint32
	FormatInt32
	FormatUint64
	FormatInt64
	FormatFloat32
	FormatFloat64
	// FormatPackedBit is bi-level data at one bit per sample, eight samples
	// per byte, most significant bit first.
	FormatPackedBit
)

var formatNames = [...]string{
	FormatUnknown:   "unknown",
	FormatBit:       "bit",
	FormatUint8:     "uint8",
	FormatInt8:      "int8",
	FormatUint16:    "uint16",
	FormatInt16:     "int16",
	FormatUint32:    "uint32",
	FormatInt32:     "int32",
	FormatUint64:    "uint64",
	FormatInt64:     "int64",
	FormatFloat32:   "float32",
	FormatFloat64:   "float64",
	FormatPackedBit: "packed_bit",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// Size is the number of bytes one read consumes from the stream. A packed bit
// read consumes the whole byte holding the bit.
func (f Format) Size() int {
	switch f {
	case FormatBit, FormatPackedBit, FormatUint8, FormatInt8:
		return 1
	case FormatUint16, FormatInt16:
		return 2
	case FormatUint32, FormatInt32, FormatFloat32:
		return 4
	case FormatUint64, FormatInt64, FormatFloat64:
		return 8
	}
	return 0
}

// Bits is the number of bits one sample occupies in image data.
func (f Format) Bits() int {
	if f == FormatPackedBit {
		return 1
	}
	return f.Size() * 8
}

// FormatFor maps an image segment's pixel value type and bits per pixel to a
// Format. Bi-level data may be bit-packed; other widths must fill whole bytes.
func FormatFor(pixelValueType string, bitsPerPixel int) (Format, error) {
	pvt := strings.ToUpper(strings.TrimSpace(pixelValueType))
	switch pvt {
	case nitf.PixelBiLevel:
		switch bitsPerPixel {
		case 1:
			return FormatPackedBit, nil
		case 8:
			return FormatBit, nil
		}
	case nitf.PixelInteger:
		switch bitsPerPixel {
		case 8:
			return FormatUint8, nil
		case 16:
			return FormatUint16, nil
		case 32:
			return FormatUint32, nil
		case 64:
			return FormatUint64, nil
		}
	case nitf.PixelSignedInteger:
		switch bitsPerPixel {
		case 8:
			return FormatInt8, nil
		case 16:
			return FormatInt16, nil
		case 32:
			return FormatInt32, nil
		case 64:
			return FormatInt64, nil
		}
	case nitf.PixelReal:
		switch bitsPerPixel {
		case 32:
			return FormatFloat32, nil
		case 64:
			return FormatFloat64, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: unsupported pixel value type %q with %d bits per pixel",
		nitf.ErrInvalidArgument, pixelValueType, bitsPerPixel)
}

// Select returns the reader for f with its samples widened to float64, or nil
// for an unknown format. float64 holds every supported integer width up to 32
// bits exactly; 64-bit integers lose precision above 2^53.
func Select(f Format) Reader[float64] {
	switch f {
	case FormatBit:
		return Widen[uint8](Bit{})
	case FormatUint8:
		return Widen[uint8](Uint8{})
	case FormatInt8:
		return Widen[int8](Int8{})
	case FormatUint16:
		return Widen[uint16](Uint16{})
	case FormatInt16:
		return Widen[int16](Int16{})
	case FormatUint32:
		return Widen[uint32](Uint32{})
	case FormatInt32:
		return Widen[int32](Int32{})
	case FormatUint64:
		return Widen[uint64](Uint64{})
	case FormatInt64:
		return Widen[int64](Int64{})
	case FormatFloat32:
		return Widen[float32](Float32{})
	case FormatFloat64:
		return Float64{}
	case FormatPackedBit:
		return Widen[uint8](PackedBit{})
	}
	return nil
}

// Widen converts a typed reader into one producing float64 samples.
func Widen[T Sample](rd Reader[T]) Reader[float64] {
	return ReaderFunc[float64](func(r io.ReadSeeker) (float64, error) {
		v, err := rd.Read(r)
		if err != nil {
			return 0, err
		}
		return float64(v), nil
	})
}
