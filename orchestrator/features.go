package orchestrator

import (
	"context"
	"fmt"
	"math"

	"github.com/pitchpal/pitch-analyzer/audio"
	"github.com/pitchpal/pitch-analyzer/clients"
	cfg "github.com/pitchpal/pitch-analyzer/config"
)

// FallbackBasic names the tier-2 extraction method in the report.
const FallbackBasic = "basic-fallback"

type featuresClient interface {
	ExtractFeatures(ctx context.Context, url, featureSet, wavPath string) (*clients.FeaturesResp, error)
}

// FeatureExtractor produces a FeatureSet through a three-tier
// fallback: the acoustic feature engine, then local spectral analysis
// of the decoded waveform, then an all-zero degraded set. Each tier
// is isolated; the extractor always returns a FeatureSet.
type FeatureExtractor struct {
	svc   cfg.Service
	http  featuresClient
	table FeatureTable

	// Injection points for tests.
	decode  func(path string) ([]float64, int, error)
	analyze func(samples []float64, sampleRate int) audio.Measurements
}

func NewFeatureExtractor(svc cfg.Service, http featuresClient) (*FeatureExtractor, error) {
	table, err := LookupFeatureTable(svc.FeatureSet)
	if err != nil {
		return nil, err
	}
	return &FeatureExtractor{
		svc:     svc,
		http:    http,
		table:   table,
		decode:  audio.DecodeWAV,
		analyze: audio.Analyze,
	}, nil
}

func (e *FeatureExtractor) Extract(ctx context.Context, path string) FeatureSet {
	fs, primaryErr := e.extractPrimary(ctx, path)
	if primaryErr == nil {
		return fs
	}

	fs, fallbackErr := e.extractBasic(path)
	if fallbackErr == nil {
		fs.FallbackMethod = FallbackBasic
		fs.Error = primaryErr.Error()
		return fs
	}

	// Terminal, non-raising floor: both causes are reported together.
	return FeatureSet{
		Error: fmt.Sprintf("%v; %v", primaryErr, fallbackErr),
	}
}

func (e *FeatureExtractor) extractPrimary(ctx context.Context, path string) (FeatureSet, error) {
	resp, err := e.http.ExtractFeatures(ctx, e.svc.URL, e.table.Version, path)
	if err != nil {
		return FeatureSet{}, fmt.Errorf("primary extraction: %w", err)
	}
	var fs FeatureSet
	e.table.apply(resp.Features, &fs)
	deriveVariability(&fs)
	fs.VoiceQualityScore = voiceQualityFromHNR(fs.HNRMean)
	fs.ExtractionSuccess = true
	return fs, nil
}

func (e *FeatureExtractor) extractBasic(path string) (FeatureSet, error) {
	samples, sampleRate, err := e.decode(path)
	if err != nil {
		return FeatureSet{}, fmt.Errorf("basic extraction: %w", err)
	}
	m := e.analyze(samples, sampleRate)
	fs := FeatureSet{
		DurationSeconds:  m.Duration,
		SampleRate:       m.SampleRate,
		PitchMean:        m.PitchMean,
		PitchStd:         m.PitchStd,
		PitchRange:       m.PitchRange,
		LoudnessMean:     m.LoudnessMean,
		LoudnessStd:      m.LoudnessStd,
		LoudnessRange:    m.LoudnessRange,
		SpectralCentroid: m.SpectralCentroid,
		EnergyMean:       m.EnergyMean,
		EnergyStd:        m.EnergyStd,
		VoicedRate:       m.VoicedRate,
	}
	deriveVariability(&fs)
	// Jitter, shimmer and HNR are not recoverable at this tier; the
	// voice quality score falls back to the neutral midpoint.
	fs.VoiceQualityScore = 50
	return fs, nil
}

func deriveVariability(fs *FeatureSet) {
	fs.PitchVariability = fs.PitchStd / math.Max(fs.PitchMean, 1)
	fs.LoudnessVariability = fs.LoudnessStd / math.Max(math.Abs(fs.LoudnessMean), 1)
}

// voiceQualityFromHNR maps an HNR range of roughly [-20,+20] dB onto
// [0,100].
func voiceQualityFromHNR(hnrMean float64) float64 {
	return clamp(0, 100, (hnrMean+20)*2.5)
}

func clamp(lo, hi, x float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
