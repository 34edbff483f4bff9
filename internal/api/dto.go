package api

import (
	"github.com/samcharles93/nitflow/pkg/nitf"
)

type SegmentSummary struct {
	Kind           string              `json:"kind"`
	Index          int                 `json:"index"`
	ID             string              `json:"id"`
	Title          string              `json:"title,omitempty"`
	Classification nitf.Classification `json:"classification,omitempty"`
	DataLength     int64               `json:"data_length"`
}

type SegmentsResponse struct {
	Object   string           `json:"object"`
	Counts   map[string]int   `json:"counts"`
	Segments []SegmentSummary `json:"segments"`
}

type ImageDetail struct {
	SegmentSummary
	Category           string      `json:"category,omitempty"`
	Rows               int         `json:"rows"`
	Columns            int         `json:"columns"`
	Bands              []nitf.Band `json:"bands"`
	PixelValueType     string      `json:"pixel_value_type"`
	BitsPerPixel       int         `json:"bits_per_pixel"`
	ActualBitsPerPixel int         `json:"actual_bits_per_pixel"`
	Mode               string      `json:"mode"`
	Compression        string      `json:"compression"`
	BlocksPerRow       int         `json:"blocks_per_row,omitempty"`
	BlocksPerColumn    int         `json:"blocks_per_column,omitempty"`
	SampleFormat       string      `json:"sample_format,omitempty"`
}

type PixelResponse struct {
	Image   int       `json:"image"`
	Row     int       `json:"row"`
	Column  int       `json:"column"`
	Format  string    `json:"format"`
	Samples []float64 `json:"samples"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	FlowID  string `json:"flow_id,omitempty"`
}

func summarize(s nitf.CommonSegment, index int) SegmentSummary {
	return SegmentSummary{
		Kind:           s.Kind().String(),
		Index:          index,
		ID:             s.Identifier(),
		Title:          s.Title(),
		Classification: s.SecurityClassification(),
		DataLength:     s.DataLength(),
	}
}
