package domain

// PageFormat fixes the output page geometry in millimetres. Content width is
// WidthMM - 2*MarginMM; the raster is scaled uniformly to that width.
type PageFormat struct {
	WidthMM  float64
	HeightMM float64
	MarginMM float64
}

func (f PageFormat) ContentWidth() float64 {
	return f.WidthMM - 2*f.MarginMM
}

func (f PageFormat) ContentHeight() float64 {
	return f.HeightMM - 2*f.MarginMM
}

// Document is the terminal artifact of one export: the serialized multi-page
// file plus its deterministic filename.
type Document struct {
	Filename string
	Bytes    []byte
	Pages    int
}

// RegionProfile describes one configured service area.
type RegionProfile struct {
	Key         Region
	DisplayName string
	FeedURL     string
	LogoURL     string
}
