package measure

// Snapshot is one metrics report of the running pipeline.
type Snapshot struct {
	Histograms map[string]Histogram `json:"histograms"`
	Meters     map[string]Meter     `json:"meters"`
	Counters   map[string]any       `json:"counters,omitempty"`
	Gauges     map[string]any       `json:"gauges,omitempty"`
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Histograms: make(map[string]Histogram),
		Meters:     make(map[string]Meter),
	}
}

func (s *Snapshot) Histogram(name string) (Histogram, bool) {
	if s == nil {
		return Histogram{}, false
	}

	h, ok := s.Histograms[name]

	return h, ok
}

func (s *Snapshot) HasMeters() bool {
	return s != nil && s.Meters != nil
}

var _ Measure = (*Snapshot)(nil)
