package audio

import (
	"math"
	"testing"
)

func sine(freq float64, amp float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestAnalyzeSineWave(t *testing.T) {
	const sampleRate = 16000
	samples := sine(220, 0.5, sampleRate, sampleRate) // 1 second

	m := Analyze(samples, sampleRate)
	if m.SampleRate != sampleRate {
		t.Errorf("SampleRate = %d", m.SampleRate)
	}
	if math.Abs(m.Duration-1) > 1e-9 {
		t.Errorf("Duration = %v, want 1s", m.Duration)
	}

	// The argmax pitch tracker resolves to one FFT bin
	// (sampleRate/frameSize = 15.625 Hz here).
	binHz := float64(sampleRate) / frameSize
	if math.Abs(m.PitchMean-220) > binHz {
		t.Errorf("PitchMean = %v, want within one bin of 220", m.PitchMean)
	}
	if m.PitchStd > binHz {
		t.Errorf("PitchStd = %v for a steady tone", m.PitchStd)
	}
	if m.VoicedRate != 1 {
		t.Errorf("VoicedRate = %v, want 1 for a continuous tone", m.VoicedRate)
	}

	wantRMS := 0.5 / math.Sqrt2
	if math.Abs(m.EnergyMean-wantRMS) > 0.02 {
		t.Errorf("EnergyMean = %v, want about %v", m.EnergyMean, wantRMS)
	}
	if m.SpectralCentroid <= 0 {
		t.Errorf("SpectralCentroid = %v", m.SpectralCentroid)
	}
}

func TestAnalyzeSilenceHasNoPitch(t *testing.T) {
	m := Analyze(make([]float64, 16000), 16000)
	if m.PitchMean != 0 || m.VoicedRate != 0 {
		t.Fatalf("silence must not produce pitch: %+v", m)
	}
}

func TestAnalyzeHighFrequencyToneHasNoPitch(t *testing.T) {
	const sampleRate = 16000
	// 6 kHz aligns exactly to an FFT bin, so the 50-400 Hz band holds
	// only numerical residue even though the frames are loud.
	samples := sine(6000, 0.5, sampleRate, sampleRate)

	m := Analyze(samples, sampleRate)
	if m.PitchMean != 0 || m.VoicedRate != 0 {
		t.Fatalf("tone outside the speech band must not produce pitch: %+v", m)
	}
	if m.EnergyMean <= voicedRMSGate {
		t.Fatalf("EnergyMean = %v, frames should be loud", m.EnergyMean)
	}
	if m.SpectralCentroid <= 400 {
		t.Errorf("SpectralCentroid = %v, want above the speech band", m.SpectralCentroid)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	m := Analyze(nil, 16000)
	if m != (Measurements{}) {
		t.Fatalf("empty input must yield zero measurements: %+v", m)
	}
	m = Analyze([]float64{0.1}, 0)
	if m != (Measurements{}) {
		t.Fatalf("invalid sample rate must yield zero measurements: %+v", m)
	}
}

func TestAnalyzeShortInputReportsEnergyOnly(t *testing.T) {
	m := Analyze(sine(220, 0.5, 16000, frameSize/2), 16000)
	if m.EnergyMean <= 0 {
		t.Errorf("EnergyMean = %v, want positive", m.EnergyMean)
	}
	if m.PitchMean != 0 {
		t.Errorf("PitchMean = %v for sub-frame input", m.PitchMean)
	}
}
