package nitf

import "time"

// Header is the file level metadata of a container.
type Header struct {
	Profile              string         `json:"profile" yaml:"profile"`
	Version              string         `json:"version" yaml:"version"`
	ComplexityLevel      int            `json:"complexity_level" yaml:"complexity_level"`
	StandardType         string         `json:"standard_type" yaml:"standard_type"`
	OriginatingStationID string         `json:"originating_station_id" yaml:"originating_station_id"`
	DateTime             time.Time      `json:"date_time" yaml:"date_time"`
	Title                string         `json:"title" yaml:"title"`
	Classification       Classification `json:"classification" yaml:"classification"`
	OriginatorName       string         `json:"originator_name,omitempty" yaml:"originator_name"`
	OriginatorPhone      string         `json:"originator_phone,omitempty" yaml:"originator_phone"`
	FileLength           int64          `json:"file_length" yaml:"file_length"`
	HeaderLength         int64          `json:"header_length" yaml:"header_length"`
}

// FormatVersion returns the profile and version joined, e.g. "NITF02.10".
func (h *Header) FormatVersion() string {
	if h == nil {
		return ""
	}
	return h.Profile + h.Version
}
