package orchestrator

import (
	"strings"
	"testing"
)

func TestLookupFeatureTablePinnedVersions(t *testing.T) {
	for _, version := range []string{"egemaps-v02", "compare-2016"} {
		t.Run(version, func(t *testing.T) {
			table, err := LookupFeatureTable(version)
			if err != nil {
				t.Fatalf("LookupFeatureTable(%q): %v", version, err)
			}
			if table.Version != version {
				t.Errorf("Version = %q", table.Version)
			}
			for _, canonical := range []string{"pitch_mean", "jitter", "hnr_mean", "loudness_mean"} {
				if table.Names[canonical] == "" {
					t.Errorf("table %q lacks %q", version, canonical)
				}
			}
		})
	}
}

func TestLookupFeatureTableUnknownVersion(t *testing.T) {
	_, err := LookupFeatureTable("opensmile-v9")
	if err == nil {
		t.Fatal("want error for unknown version")
	}
	if !strings.Contains(err.Error(), "egemaps-v02") {
		t.Errorf("error should name the known tables: %v", err)
	}
}

func TestApplyIgnoresUnmappedEngineNames(t *testing.T) {
	table, err := LookupFeatureTable("compare-2016")
	if err != nil {
		t.Fatal(err)
	}
	var fs FeatureSet
	table.apply(map[string]float64{
		"F0final_sma_amean":     180,
		"logHNR_sma_amean":      6,
		"mystery_functional_42": 1e9,
	}, &fs)
	if fs.PitchMean != 180 || fs.HNRMean != 6 {
		t.Fatalf("mapped fields wrong: %+v", fs)
	}
	if fs.Shimmer != 0 || fs.EnergyMean != 0 {
		t.Fatalf("missing engine names must leave fields at zero: %+v", fs)
	}
}
