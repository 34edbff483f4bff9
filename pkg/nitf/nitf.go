// Package nitf holds the in-memory model of a parsed multi-segment imagery
// container: one file header plus ordered sequences of image, graphic, text,
// label, symbol and data extension segments.
//
// The model is produced by a separate parsing subsystem. Nothing in this
// package reads the binary container format; consumers treat a DataSource as
// read-only.
package nitf

import (
	"fmt"
	"strings"
)

// SegmentKind identifies one of the six segment categories.
type SegmentKind uint8

const (
	KindImage SegmentKind = iota + 1
	KindGraphic
	KindText
	KindLabel
	KindSymbol
	KindDataExtension
)

// Kinds lists every segment kind in file order.
var Kinds = []SegmentKind{
	KindImage,
	KindGraphic,
	KindText,
	KindLabel,
	KindSymbol,
	KindDataExtension,
}

func (k SegmentKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindGraphic:
		return "graphic"
	case KindText:
		return "text"
	case KindLabel:
		return "label"
	case KindSymbol:
		return "symbol"
	case KindDataExtension:
		return "data_extension"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseSegmentKind accepts the String form of a kind plus a few common aliases.
func ParseSegmentKind(s string) (SegmentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", "images", "im":
		return KindImage, nil
	case "graphic", "graphics", "sy", "gr":
		return KindGraphic, nil
	case "text", "texts", "te":
		return KindText, nil
	case "label", "labels", "la":
		return KindLabel, nil
	case "symbol", "symbols":
		return KindSymbol, nil
	case "data_extension", "data-extension", "des", "de":
		return KindDataExtension, nil
	}
	return 0, fmt.Errorf("%w: unknown segment kind %q", ErrInvalidArgument, s)
}

// Classification is the single letter security classification code.
type Classification string

const (
	Unclassified Classification = "U"
	Restricted   Classification = "R"
	Confidential Classification = "C"
	Secret       Classification = "S"
	TopSecret    Classification = "T"
)

func (c Classification) String() string {
	switch c {
	case Unclassified:
		return "UNCLASSIFIED"
	case Restricted:
		return "RESTRICTED"
	case Confidential:
		return "CONFIDENTIAL"
	case Secret:
		return "SECRET"
	case TopSecret:
		return "TOP SECRET"
	case "":
		return "UNSPECIFIED"
	default:
		return string(c)
	}
}
