package measure

// Measure gives access to the metrics reported for a running pipeline.
type Measure interface {
	// Histogram returns the histogram registered under name.
	Histogram(name string) (Histogram, bool)
	// HasMeters reports whether the report carries any meter.
	HasMeters() bool
}
