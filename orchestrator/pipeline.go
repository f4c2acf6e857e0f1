// Package orchestrator runs the analysis pipeline: one audio file in,
// one AnalysisReport out. Failures are contained at each component
// boundary and converted to annotated default values; the pipeline
// itself never returns an error.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pitchpal/pitch-analyzer/audio"
	"github.com/pitchpal/pitch-analyzer/clients"
	cfg "github.com/pitchpal/pitch-analyzer/config"
)

type normalizer interface {
	Normalize(ctx context.Context, source string) (string, func(), error)
}

type Pipeline struct {
	cfg         *cfg.Root
	log         *logrus.Logger
	transcripts *TranscriptProvider
	features    *FeatureExtractor
	normalize   normalizer
}

func NewPipeline(c *cfg.Root, log *logrus.Logger) (*Pipeline, error) {
	http := clients.NewHTTP()
	features, err := NewFeatureExtractor(c.Services.Features, http)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:         c,
		log:         log,
		transcripts: NewTranscriptProvider(c.Services.Transcriber, http),
		features:    features,
		normalize:   audio.NewNormalizer(c.Audio.FFmpeg, c.Audio.SampleRate, c.Audio.Channels, c.Audio.Codec),
	}, nil
}

// Run analyzes one audio file. Single-threaded and single-pass: the
// transcript and feature stages are order-insensitive, the rate
// reconciliation needs both, scoring needs the reconciled pair, and
// aggregation closes the run. Always returns a well-formed report.
func (p *Pipeline) Run(ctx context.Context, path string) (report AnalysisReport) {
	runID := uuid.NewString()
	log := p.log.WithFields(logrus.Fields{"run_id": runID, "file": path})

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("aggregation failed: %v", r)
			report = FailureReport(path, fmt.Sprintf("aggregation failed: %v", r))
		}
	}()

	// Normalize to decodable PCM. On conversion failure the original
	// file is retried directly against both engines.
	wavPath := path
	cleanup := func() {}
	if normPath, normCleanup, err := p.normalize.Normalize(ctx, path); err != nil {
		log.WithError(err).Warn("format normalization failed; retrying original file directly")
	} else {
		wavPath = normPath
		cleanup = normCleanup
	}
	defer cleanup()

	tr := p.transcripts.Transcribe(ctx, wavPath)
	if tr.Error != "" {
		log.Warnf("transcription degraded: %s", tr.Error)
	} else {
		log.WithField("stage", "transcript").Infof("%d segments (lang=%s)", len(tr.Segments), tr.Language)
	}

	features := p.features.Extract(ctx, wavPath)
	switch {
	case features.ExtractionSuccess:
		log.WithField("stage", "features").Info("primary extraction complete")
	case features.FallbackMethod != "":
		log.WithField("stage", "features").Warnf("fell back to %s: %s", features.FallbackMethod, features.Error)
	default:
		log.WithField("stage", "features").Errorf("extraction failed: %s", features.Error)
	}

	// Prefer the segment-timing rate over the duration-based estimate
	// whenever segments carry positive speech time.
	tr.SpeakingRateWPM = ReconcileRate(tr)

	scores := Score(features, tr)
	report = BuildReport(path, tr, features, scores)

	if p.cfg.Paths.Outputs != "" {
		if saved, err := PersistReport(p.cfg.Paths.Outputs, runID, report); err != nil {
			log.WithError(err).Warn("could not persist report")
		} else {
			log.Infof("report saved to %s", saved)
		}
	}
	return report
}
