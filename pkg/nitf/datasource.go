package nitf

// DataSource is a fully parsed container. Every accessor returns segments in
// the order they were stored; a nil slice means the container has none of
// that kind.
type DataSource interface {
	Header() *Header
	ImageSegments() []*ImageSegment
	GraphicSegments() []*GraphicSegment
	TextSegments() []*TextSegment
	LabelSegments() []*LabelSegment
	SymbolSegments() []*SymbolSegment
	DataExtensionSegments() []*DataExtensionSegment
}

// Container is the in-memory DataSource produced by a parser.
type Container struct {
	FileHeader     Header
	Images         []*ImageSegment
	Graphics       []*GraphicSegment
	Texts          []*TextSegment
	Labels         []*LabelSegment
	Symbols        []*SymbolSegment
	DataExtensions []*DataExtensionSegment
}

var _ DataSource = (*Container)(nil)

func (c *Container) Header() *Header                                { return &c.FileHeader }
func (c *Container) ImageSegments() []*ImageSegment                 { return c.Images }
func (c *Container) GraphicSegments() []*GraphicSegment             { return c.Graphics }
func (c *Container) TextSegments() []*TextSegment                   { return c.Texts }
func (c *Container) LabelSegments() []*LabelSegment                 { return c.Labels }
func (c *Container) SymbolSegments() []*SymbolSegment               { return c.Symbols }
func (c *Container) DataExtensionSegments() []*DataExtensionSegment { return c.DataExtensions }

// Segments returns the segments of one kind from any DataSource through the
// common capability, preserving stored order.
func Segments(src DataSource, kind SegmentKind) []CommonSegment {
	if src == nil {
		return nil
	}
	switch kind {
	case KindImage:
		return common(src.ImageSegments())
	case KindGraphic:
		return common(src.GraphicSegments())
	case KindText:
		return common(src.TextSegments())
	case KindLabel:
		return common(src.LabelSegments())
	case KindSymbol:
		return common(src.SymbolSegments())
	case KindDataExtension:
		return common(src.DataExtensionSegments())
	}
	return nil
}

// Counts reports how many segments of each kind src holds.
func Counts(src DataSource) map[SegmentKind]int {
	out := make(map[SegmentKind]int, len(Kinds))
	for _, k := range Kinds {
		out[k] = len(Segments(src, k))
	}
	return out
}

func common[T CommonSegment](in []T) []CommonSegment {
	if len(in) == 0 {
		return nil
	}
	out := make([]CommonSegment, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
