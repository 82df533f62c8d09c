package measure

import "math"

// Histogram is the summary of a sampled value over a time window.
type Histogram struct {
	Count  int64   `json:"count"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	P999   float64 `json:"p999"`
	Stddev float64 `json:"stddev"`
}

// Meter is a rate measurement.
type Meter struct {
	Count    int64   `json:"count"`
	M1Rate   float64 `json:"m1_rate"`
	M5Rate   float64 `json:"m5_rate"`
	M15Rate  float64 `json:"m15_rate"`
	MeanRate float64 `json:"mean_rate"`
}

const (
	errorRecordsSuffix = ".errorRecords.histogramM5"
	stageErrorsSuffix  = ".stageErrors.histogramM5"
)

// ErrorRecordsKey is the histogram counting records sent to error by a stage instance.
func ErrorRecordsKey(instanceName string) string {
	return "stage." + instanceName + errorRecordsSuffix
}

// StageErrorsKey is the histogram counting errors raised by a stage instance itself.
func StageErrorsKey(instanceName string) string {
	return "stage." + instanceName + stageErrorsSuffix
}

// StageErrorCount sums the mean error records and mean stage errors of a stage instance
// and rounds half away from zero. Missing histograms count as zero.
func StageErrorCount(msr Measure, instanceName string) int {
	var total float64

	if h, ok := msr.Histogram(ErrorRecordsKey(instanceName)); ok {
		total += h.Mean
	}

	if h, ok := msr.Histogram(StageErrorsKey(instanceName)); ok {
		total += h.Mean
	}

	return int(math.Round(total))
}
