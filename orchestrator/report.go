package orchestrator

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// BuildReport merges the upstream results with file metadata into the
// final report shape. Degraded-but-present results still count as
// success; only aggregation failure flips the flag.
func BuildReport(path string, tr TranscriptResult, fs FeatureSet, scores AnalysisScores) AnalysisReport {
	info := FileInfo{
		Name: filepath.Base(path),
		Path: path,
	}
	if st, err := os.Stat(path); err == nil {
		info.Size = st.Size()
	}
	return AnalysisReport{
		Success:    true,
		FileInfo:   info,
		Transcript: tr,
		Features:   fs,
		Analysis:   scores,
	}
}

// FailureReport produces the minimal well-formed report for a run
// that could not be aggregated.
func FailureReport(path, cause string) AnalysisReport {
	return AnalysisReport{
		Success: false,
		FileInfo: FileInfo{
			Name: filepath.Base(path),
			Path: path,
		},
		Transcript: TranscriptResult{Language: "unknown", Segments: []Segment{}},
		Analysis: AnalysisScores{
			Recommendations: []string{"analysis failed: " + cause},
			Strengths:       []string{},
		},
		Error: cause,
	}
}

// WriteReport emits the report as one indented JSON document. If the
// report cannot be serialized (non-finite floats are the realistic
// cause) a failure document is written instead, so the consumer
// always receives parseable JSON.
func WriteReport(w io.Writer, report AnalysisReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fallback := FailureReport(report.FileInfo.Path, "report serialization failed: "+err.Error())
		if data, err = json.MarshalIndent(fallback, "", "  "); err != nil {
			return err
		}
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// PersistReport writes the report under <outputsRoot>/<runID>/ in
// addition to the stdout document. Best effort; callers log and move
// on when it fails.
func PersistReport(outputsRoot, runID string, report AnalysisReport) (string, error) {
	dir := filepath.Join(outputsRoot, "run_"+runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "report.json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteReport(f, report); err != nil {
		return "", err
	}
	return path, nil
}
