package orchestrator

import "strings"

// ReconcileRate recomputes the speaking rate from segment timings,
// which excludes leading/trailing silence and inter-segment pauses
// from the denominator and so tracks perceived pace more closely than
// the engine's duration-based estimate. With no segments or no
// positive speech time, the transcript's own rate stands.
func ReconcileRate(tr TranscriptResult) float64 {
	if len(tr.Segments) == 0 {
		return tr.SpeakingRateWPM
	}
	var speechTime float64
	var words int
	for _, seg := range tr.Segments {
		speechTime += seg.End - seg.Start
		words += len(strings.Fields(seg.Text))
	}
	if speechTime <= 0 {
		return tr.SpeakingRateWPM
	}
	return float64(words) / speechTime * 60
}
