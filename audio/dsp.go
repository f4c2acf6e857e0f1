package audio

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

const (
	frameSize = 1024
	hopSize   = 512

	// Framewise pitch search band. Fundamentals outside typical
	// speech range are treated as octave errors and ignored.
	pitchMinHz = 50.0
	pitchMaxHz = 400.0

	// Frames below this RMS carry no usable pitch.
	voicedRMSGate = 0.01
)

// Measurements holds the raw prosodic measurements the local
// extractor can recover from a decoded waveform. Jitter, shimmer and
// HNR need cycle-level analysis and are out of reach here; the
// orchestrator reports them as zero on this path.
type Measurements struct {
	Duration         float64
	SampleRate       int
	PitchMean        float64
	PitchStd         float64
	PitchRange       float64
	LoudnessMean     float64
	LoudnessStd      float64
	LoudnessRange    float64
	EnergyMean       float64
	EnergyStd        float64
	SpectralCentroid float64
	VoicedRate       float64
}

// Analyze computes framewise pitch (spectral-magnitude argmax within
// the speech band), RMS energy and spectral centroid over the whole
// recording and aggregates them into summary statistics.
func Analyze(samples []float64, sampleRate int) Measurements {
	var m Measurements
	if len(samples) == 0 || sampleRate <= 0 {
		return m
	}
	m.SampleRate = sampleRate
	m.Duration = float64(len(samples)) / float64(sampleRate)
	if len(samples) < frameSize {
		// Too short for spectral analysis; report energy only.
		rms := frameRMS(samples)
		m.EnergyMean = rms
		m.LoudnessMean = rms
		return m
	}

	fft := fourier.NewFFT(frameSize)
	binHz := float64(sampleRate) / float64(frameSize)
	minBin := int(math.Ceil(pitchMinHz / binHz))
	maxBin := int(math.Floor(pitchMaxHz / binHz))
	if minBin < 1 {
		minBin = 1
	}

	var (
		pitches   []float64
		rmsSeries []float64
		centroids []float64
		frames    int
	)
	for off := 0; off+frameSize <= len(samples); off += hopSize {
		frame := samples[off : off+frameSize]
		frames++

		rms := frameRMS(frame)
		rmsSeries = append(rmsSeries, rms)

		coeffs := fft.Coefficients(nil, frame)
		mags := make([]float64, len(coeffs))
		for i, c := range coeffs {
			mags[i] = cmplxAbs(c)
		}

		if c := spectralCentroid(mags, binHz); c > 0 {
			centroids = append(centroids, c)
		}

		if rms < voicedRMSGate {
			continue
		}
		peak := minBin
		for i := minBin; i <= maxBin && i < len(mags); i++ {
			if mags[i] > mags[peak] {
				peak = i
			}
		}
		// A loud frame whose speech band is spectrally empty has no
		// fundamental to report. The relative floor keeps leakage
		// residue from high-frequency tones from reading as 50 Hz.
		if mags[peak] <= 0 || mags[peak] < 1e-6*maxOf(mags) {
			continue
		}
		pitches = append(pitches, float64(peak)*binHz)
	}

	if len(pitches) > 0 {
		m.PitchMean = stat.Mean(pitches, nil)
		m.PitchStd = stat.PopStdDev(pitches, nil)
		m.PitchRange = maxOf(pitches) - minOf(pitches)
	}
	if len(rmsSeries) > 0 {
		m.EnergyMean = stat.Mean(rmsSeries, nil)
		m.EnergyStd = stat.PopStdDev(rmsSeries, nil)
		m.LoudnessMean = m.EnergyMean
		m.LoudnessStd = m.EnergyStd
		m.LoudnessRange = maxOf(rmsSeries) - minOf(rmsSeries)
	}
	if len(centroids) > 0 {
		m.SpectralCentroid = stat.Mean(centroids, nil)
	}
	if frames > 0 {
		m.VoicedRate = float64(len(pitches)) / float64(frames)
	}
	return m
}

func frameRMS(frame []float64) float64 {
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func spectralCentroid(mags []float64, binHz float64) float64 {
	var weighted, total float64
	for i, mag := range mags {
		weighted += float64(i) * binHz * mag
		total += mag
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func maxOf(xs []float64) float64 {
	out := xs[0]
	for _, x := range xs[1:] {
		if x > out {
			out = x
		}
	}
	return out
}

func minOf(xs []float64) float64 {
	out := xs[0]
	for _, x := range xs[1:] {
		if x < out {
			out = x
		}
	}
	return out
}
