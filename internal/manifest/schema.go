package manifest

import "github.com/samcharles93/nitflow/pkg/nitf"

// Document is the on-disk description of a parsed container. Payload files
// named by Data are resolved relative to the manifest.
type Document struct {
	Header         nitf.Header          `json:"header" yaml:"header"`
	Images         []ImageEntry         `json:"images,omitempty" yaml:"images"`
	Graphics       []GraphicEntry       `json:"graphics,omitempty" yaml:"graphics"`
	Texts          []TextEntry          `json:"texts,omitempty" yaml:"texts"`
	Labels         []LabelEntry         `json:"labels,omitempty" yaml:"labels"`
	Symbols        []SymbolEntry        `json:"symbols,omitempty" yaml:"symbols"`
	DataExtensions []DataExtensionEntry `json:"data_extensions,omitempty" yaml:"data_extensions"`
}

// SegmentEntry holds the fields every segment entry shares.
type SegmentEntry struct {
	ID             string              `json:"id" yaml:"id"`
	Title          string              `json:"title,omitempty" yaml:"title"`
	Classification nitf.Classification `json:"classification,omitempty" yaml:"classification"`
	Data           string              `json:"data,omitempty" yaml:"data"`
}

type ImageEntry struct {
	SegmentEntry             `yaml:",inline"`
	Category                 string      `json:"category,omitempty" yaml:"category"`
	Rows                     int         `json:"rows" yaml:"rows"`
	Columns                  int         `json:"columns" yaml:"columns"`
	Bands                    []nitf.Band `json:"bands" yaml:"bands"`
	PixelValueType           string      `json:"pixel_value_type" yaml:"pixel_value_type"`
	BitsPerPixel             int         `json:"bits_per_pixel" yaml:"bits_per_pixel"`
	ActualBitsPerPixel       int         `json:"actual_bits_per_pixel,omitempty" yaml:"actual_bits_per_pixel"`
	PixelJustification       string      `json:"pixel_justification,omitempty" yaml:"pixel_justification"`
	Mode                     string      `json:"mode" yaml:"mode"`
	BlocksPerRow             int         `json:"blocks_per_row,omitempty" yaml:"blocks_per_row"`
	BlocksPerColumn          int         `json:"blocks_per_column,omitempty" yaml:"blocks_per_column"`
	PixelsPerBlockHorizontal int         `json:"pixels_per_block_horizontal,omitempty" yaml:"pixels_per_block_horizontal"`
	PixelsPerBlockVertical   int         `json:"pixels_per_block_vertical,omitempty" yaml:"pixels_per_block_vertical"`
	Compression              string      `json:"compression,omitempty" yaml:"compression"`
	DisplayLevel             int         `json:"display_level,omitempty" yaml:"display_level"`
	AttachmentLevel          int         `json:"attachment_level,omitempty" yaml:"attachment_level"`
}

type GraphicEntry struct {
	SegmentEntry    `yaml:",inline"`
	DisplayLevel    int           `json:"display_level,omitempty" yaml:"display_level"`
	AttachmentLevel int           `json:"attachment_level,omitempty" yaml:"attachment_level"`
	Location        nitf.Location `json:"location" yaml:"location"`
	BoundLowerRight nitf.Location `json:"bound_lower_right" yaml:"bound_lower_right"`
}

type TextEntry struct {
	SegmentEntry `yaml:",inline"`
	Format       string `json:"format,omitempty" yaml:"format"`
	Text         string `json:"text,omitempty" yaml:"text"`
}

type LabelEntry struct {
	SegmentEntry    `yaml:",inline"`
	Text            string        `json:"text,omitempty" yaml:"text"`
	Location        nitf.Location `json:"location" yaml:"location"`
	CellWidth       int           `json:"cell_width,omitempty" yaml:"cell_width"`
	CellHeight      int           `json:"cell_height,omitempty" yaml:"cell_height"`
	TextColor       string        `json:"text_color,omitempty" yaml:"text_color"`
	BackgroundColor string        `json:"background_color,omitempty" yaml:"background_color"`
	DisplayLevel    int           `json:"display_level,omitempty" yaml:"display_level"`
	AttachmentLevel int           `json:"attachment_level,omitempty" yaml:"attachment_level"`
}

type SymbolEntry struct {
	SegmentEntry    `yaml:",inline"`
	SymbolType      string        `json:"symbol_type,omitempty" yaml:"symbol_type"`
	DisplayLevel    int           `json:"display_level,omitempty" yaml:"display_level"`
	AttachmentLevel int           `json:"attachment_level,omitempty" yaml:"attachment_level"`
	Location        nitf.Location `json:"location" yaml:"location"`
}

type DataExtensionEntry struct {
	SegmentEntry  `yaml:",inline"`
	TypeID        string `json:"type_id" yaml:"type_id"`
	Version       int    `json:"version" yaml:"version"`
	UserSubheader string `json:"user_subheader,omitempty" yaml:"user_subheader"`
}
