// Package audio handles format normalization and the local
// spectral/pitch measurements used when the acoustic feature engine
// is unavailable.
package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Normalizer converts arbitrary audio containers into a PCM WAV file
// the engines can decode. Conversion happens through an ffmpeg
// subprocess; the command runner is injectable for tests.
type Normalizer struct {
	ffmpegBinary  string
	sampleRate    int
	channels      int
	codec         string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

func NewNormalizer(ffmpegBinary string, sampleRate, channels int, codec string) *Normalizer {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if channels <= 0 {
		channels = 1
	}
	if codec == "" {
		codec = "pcm_s16le"
	}
	return &Normalizer{
		ffmpegBinary: ffmpegBinary,
		sampleRate:   sampleRate,
		channels:     channels,
		codec:        codec,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (n *Normalizer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	n.commandRunner = runner
}

// Normalize decodes source into a temporary mono PCM WAV file and
// returns its path together with a cleanup function. The cleanup
// function must be called on every exit path; repeated invocations
// must not leak temporary storage. On failure no temp file survives
// and the caller should retry the original path directly.
func (n *Normalizer) Normalize(ctx context.Context, source string) (string, func(), error) {
	tmp, err := os.CreateTemp("", "pitchpal_*.wav")
	if err != nil {
		return "", nil, fmt.Errorf("normalize: create temp: %w", err)
	}
	dest := tmp.Name()
	tmp.Close()

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", strconv.Itoa(n.channels),
		"-ar", strconv.Itoa(n.sampleRate),
		"-c:a", n.codec,
		dest,
	}
	if err := n.run(ctx, n.ffmpegBinary, args...); err != nil {
		os.Remove(dest)
		return "", nil, fmt.Errorf("normalize: %w", err)
	}
	return dest, func() { os.Remove(dest) }, nil
}

func (n *Normalizer) run(ctx context.Context, name string, args ...string) error {
	if n.commandRunner != nil {
		return n.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
