package orchestrator

import (
	"fmt"
	"math"
)

// Score maps the reconciled features and transcript into the four
// sub-scores plus threshold-rule feedback. Pure and deterministic; a
// panic during scoring is downgraded to an all-zero result whose sole
// recommendation is the failure text, so scoring can never abort
// report generation.
func Score(features FeatureSet, tr TranscriptResult) (scores AnalysisScores) {
	defer func() {
		if r := recover(); r != nil {
			scores = AnalysisScores{
				Recommendations: []string{fmt.Sprintf("analysis error: %v", r)},
				Strengths:       []string{},
			}
		}
	}()

	rate := ReconcileRate(tr)

	// Blend absolute range and normalized variability equally. Capped
	// above at 100 only: a negative variability passes through.
	pitchVariety := math.Min(100, features.PitchRange/200*50+features.PitchVariability*50)
	voiceQuality := features.VoiceQualityScore
	volumeConsistency := math.Max(0, 100-features.LoudnessVariability*50)
	pace := paceScore(rate)
	overall := (pitchVariety + voiceQuality + volumeConsistency + pace) / 4

	return AnalysisScores{
		OverallScore:      round1(overall),
		PitchVariety:      round1(pitchVariety),
		VoiceQuality:      round1(voiceQuality),
		VolumeConsistency: round1(volumeConsistency),
		PaceScore:         round1(pace),
		Recommendations:   recommendations(pitchVariety, voiceQuality, volumeConsistency, rate),
		Strengths:         strengths(pitchVariety, voiceQuality, volumeConsistency, rate),
	}
}

// paceScore is piecewise around the comfortable 120-180 wpm band
// centered at 150, with a steeper penalty outside the band.
func paceScore(rate float64) float64 {
	if rate >= 120 && rate <= 180 {
		return 100 - math.Abs(rate-150)*2
	}
	return math.Max(0, 100-math.Abs(rate-150)*3)
}

func recommendations(pitchVariety, voiceQuality, volumeConsistency, rate float64) []string {
	var recs []string
	if pitchVariety < 60 {
		recs = append(recs, "Try varying your pitch more to keep listeners engaged")
	}
	if voiceQuality < 60 {
		recs = append(recs, "Reduce vocal strain and aim for a clearer, more relaxed tone")
	}
	if volumeConsistency < 70 {
		recs = append(recs, "Work on maintaining consistent volume throughout your delivery")
	}
	if rate < 120 {
		recs = append(recs, "Consider speaking a bit faster to maintain energy")
	} else if rate > 180 {
		recs = append(recs, "Try slowing down slightly for better comprehension")
	}
	if len(recs) == 0 {
		recs = append(recs, "Great job! Your delivery shows good vocal variety and clarity")
	}
	return recs
}

func strengths(pitchVariety, voiceQuality, volumeConsistency, rate float64) []string {
	out := []string{}
	if pitchVariety > 70 {
		out = append(out, "Expressive pitch variety")
	}
	if voiceQuality > 70 {
		out = append(out, "Clear, resonant voice quality")
	}
	if volumeConsistency > 80 {
		out = append(out, "Steady volume control")
	}
	if rate >= 130 && rate <= 170 {
		out = append(out, "Comfortable speaking pace")
	}
	return out
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
