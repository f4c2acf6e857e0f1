package orchestrator

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed featuremap.yaml
var featureMapYAML []byte

// FeatureTable maps canonical FeatureSet field names to the engine's
// functional names for one pinned feature-set version.
type FeatureTable struct {
	Version string
	Names   map[string]string
}

type featureMapFile struct {
	Tables map[string]map[string]string `yaml:"tables"`
}

// LookupFeatureTable returns the pinned translation table for the
// given feature-set version.
func LookupFeatureTable(version string) (FeatureTable, error) {
	var file featureMapFile
	if err := yaml.Unmarshal(featureMapYAML, &file); err != nil {
		return FeatureTable{}, fmt.Errorf("feature map: %w", err)
	}
	names, ok := file.Tables[version]
	if !ok {
		known := make([]string, 0, len(file.Tables))
		for k := range file.Tables {
			known = append(known, k)
		}
		sort.Strings(known)
		return FeatureTable{}, fmt.Errorf("feature map: unknown feature set %q (have %v)", version, known)
	}
	return FeatureTable{Version: version, Names: names}, nil
}

// apply copies engine functionals onto the canonical fields. Names
// absent from the engine output leave the field at zero.
func (t FeatureTable) apply(raw map[string]float64, fs *FeatureSet) {
	get := func(canonical string) float64 {
		name, ok := t.Names[canonical]
		if !ok {
			return 0
		}
		return raw[name]
	}
	fs.PitchMean = get("pitch_mean")
	fs.PitchStd = get("pitch_std")
	fs.PitchRange = get("pitch_range")
	fs.Jitter = get("jitter")
	fs.Shimmer = get("shimmer")
	fs.LoudnessMean = get("loudness_mean")
	fs.LoudnessStd = get("loudness_std")
	fs.LoudnessRange = get("loudness_range")
	fs.HNRMean = get("hnr_mean")
	fs.SpectralCentroid = get("spectral_centroid")
	fs.EnergyMean = get("energy_mean")
	fs.EnergyStd = get("energy_std")
	fs.VoicedRate = get("voiced_segment_rate")
}
