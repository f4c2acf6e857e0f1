package orchestrator

// Segment is one time-aligned span of the transcript. Start and End
// are seconds from the start of the recording, rounded to 2 decimal
// places; Confidence is copied from the engine only when it supplied
// one.
type Segment struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// TranscriptResult is the normalized transcription outcome. When
// Error is set every numeric field is zero and Text is empty; a
// transcription failure never aborts feature-based scoring.
type TranscriptResult struct {
	Text            string    `json:"text"`
	Language        string    `json:"language"`
	DurationSeconds float64   `json:"duration_seconds"`
	WordCount       int       `json:"word_count"`
	SpeakingRateWPM float64   `json:"speaking_rate_wpm"`
	Segments        []Segment `json:"segments"`
	Confidence      *float64  `json:"confidence,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// FeatureSet is the canonical prosodic measurement record. Raw fields
// default to zero when extraction fails; VoiceQualityScore is always
// clamped to [0,100].
type FeatureSet struct {
	PitchMean        float64 `json:"pitch_mean"`
	PitchStd         float64 `json:"pitch_std"`
	PitchRange       float64 `json:"pitch_range"`
	Jitter           float64 `json:"jitter"`
	Shimmer          float64 `json:"shimmer"`
	LoudnessMean     float64 `json:"loudness_mean"`
	LoudnessStd      float64 `json:"loudness_std"`
	LoudnessRange    float64 `json:"loudness_range"`
	HNRMean          float64 `json:"hnr_mean"`
	SpectralCentroid float64 `json:"spectral_centroid"`
	EnergyMean       float64 `json:"energy_mean"`
	EnergyStd        float64 `json:"energy_std"`
	VoicedRate       float64 `json:"voiced_segment_rate"`

	// Waveform metadata, known only on the local extraction path.
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	SampleRate      int     `json:"sample_rate,omitempty"`

	PitchVariability    float64 `json:"pitch_variability"`
	LoudnessVariability float64 `json:"loudness_variability"`
	VoiceQualityScore   float64 `json:"voice_quality_score"`

	ExtractionSuccess bool   `json:"extraction_success"`
	FallbackMethod    string `json:"fallback_method,omitempty"`
	Error             string `json:"error,omitempty"`
}

// AnalysisScores carries the derived coaching scores. Sub-scores aim
// for [0,100] but are only clamped where the formulas say so;
// Recommendations is never empty.
type AnalysisScores struct {
	OverallScore      float64  `json:"overall_score"`
	PitchVariety      float64  `json:"pitch_variety"`
	VoiceQuality      float64  `json:"voice_quality"`
	VolumeConsistency float64  `json:"volume_consistency"`
	PaceScore         float64  `json:"pace_score"`
	Recommendations   []string `json:"recommendations"`
	Strengths         []string `json:"strengths"`
}

type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Path string `json:"path"`
}

// AnalysisReport is the root aggregate emitted once per run. Success
// stays true for degraded-but-present results; it flips to false only
// when aggregation itself fails, and Error is then non-empty.
type AnalysisReport struct {
	Success    bool             `json:"success"`
	FileInfo   FileInfo         `json:"file_info"`
	Transcript TranscriptResult `json:"transcript"`
	Features   FeatureSet       `json:"audio_features"`
	Analysis   AnalysisScores   `json:"analysis"`
	Error      string           `json:"error,omitempty"`
}
