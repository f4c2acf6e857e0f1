package orchestrator

import (
	"math"
	"testing"
)

func TestReconcileRate(t *testing.T) {
	cases := []struct {
		name string
		tr   TranscriptResult
		want float64
	}{
		{
			name: "no segments falls back to transcript rate",
			tr:   TranscriptResult{SpeakingRateWPM: 132},
			want: 132,
		},
		{
			name: "zero speech time falls back to transcript rate",
			tr: TranscriptResult{
				SpeakingRateWPM: 90,
				Segments:        []Segment{{Start: 5, End: 5, Text: "hello"}},
			},
			want: 90,
		},
		{
			name: "segment timing excludes pauses",
			tr: TranscriptResult{
				SpeakingRateWPM: 24, // duration-based over 10s
				Segments: []Segment{
					{Start: 0, End: 2, Text: "hello world"},
					{Start: 8, End: 10, Text: "hello world"},
				},
			},
			// 4 words over 4s of actual speech.
			want: 60,
		},
		{
			name: "single segment over full recording",
			tr: TranscriptResult{
				SpeakingRateWPM: 24,
				Segments:        []Segment{{Start: 0, End: 10, Text: "hello world hello world"}},
			},
			want: 24,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ReconcileRate(tc.tr)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("ReconcileRate = %v, want %v", got, tc.want)
			}
		})
	}
}
