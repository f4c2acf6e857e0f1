package orchestrator

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/pitchpal/pitch-analyzer/clients"
	cfg "github.com/pitchpal/pitch-analyzer/config"
)

type transcriber interface {
	Transcribe(ctx context.Context, url, apiKey, wavPath string) (*clients.TranscribeResp, error)
}

// TranscriptProvider turns the transcription engine's output into the
// fixed TranscriptResult schema. It is a total function: every
// failure is converted into a zero-valued result with an error
// annotation so feature extraction stays independently gradeable.
type TranscriptProvider struct {
	svc  cfg.Service
	http transcriber
}

func NewTranscriptProvider(svc cfg.Service, http transcriber) *TranscriptProvider {
	return &TranscriptProvider{svc: svc, http: http}
}

func (p *TranscriptProvider) Transcribe(ctx context.Context, path string) TranscriptResult {
	resp, err := p.http.Transcribe(ctx, p.svc.URL, p.svc.APIKey, path)
	if err != nil {
		return TranscriptResult{
			Language: "unknown",
			Segments: []Segment{},
			Error:    "transcription failed: " + err.Error(),
		}
	}
	return normalizeTranscript(resp)
}

func normalizeTranscript(resp *clients.TranscribeResp) TranscriptResult {
	out := TranscriptResult{
		Language: resp.Language,
		Segments: make([]Segment, 0, len(resp.Segments)),
	}
	if out.Language == "" {
		out.Language = "unknown"
	}
	if resp.Duration > 0 {
		out.DurationSeconds = resp.Duration
	}

	var confSum float64
	var confCount int
	for _, s := range resp.Segments {
		seg := Segment{
			Start: round2(s.Start),
			End:   round2(s.End),
			Text:  strings.TrimSpace(s.Text),
		}
		// Inverted spans are engine garbage and would break the
		// schema's start <= end guarantee.
		if seg.End < seg.Start {
			continue
		}
		if s.Confidence != nil {
			c := *s.Confidence
			seg.Confidence = &c
			confSum += c
			confCount++
		}
		out.Segments = append(out.Segments, seg)
	}
	// Engines are not trusted to return segments in order.
	sort.SliceStable(out.Segments, func(i, j int) bool {
		return out.Segments[i].Start < out.Segments[j].Start
	})
	if confCount > 0 {
		mean := confSum / float64(confCount)
		out.Confidence = &mean
	}

	out.Text = strings.TrimSpace(resp.Text)
	if out.Text == "" {
		parts := make([]string, 0, len(out.Segments))
		for _, seg := range out.Segments {
			if seg.Text != "" {
				parts = append(parts, seg.Text)
			}
		}
		out.Text = strings.Join(parts, " ")
	}

	out.WordCount = len(strings.Fields(out.Text))
	if out.DurationSeconds > 0 {
		out.SpeakingRateWPM = float64(out.WordCount) / (out.DurationSeconds / 60)
	}
	return out
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
