package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// FeaturesResp carries the acoustic engine's statistical functionals
// as a flat name-to-value map. Names are engine-version specific; the
// orchestrator owns the translation to canonical fields.
type FeaturesResp struct {
	FeatureSet string             `json:"feature_set"`
	Features   map[string]float64 `json:"features"`
}

// ExtractFeatures uploads the audio file to the acoustic feature
// engine and decodes the functional map it returns. The requested
// feature set is passed along so the engine can pin its vocabulary.
func (h *HTTP) ExtractFeatures(ctx context.Context, url, featureSet, wavPath string) (*FeaturesResp, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(wavPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if featureSet != "" {
		if err = w.WriteField("feature_set", featureSet); err != nil {
			return nil, err
		}
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/features", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("features %s: %s", resp.Status, string(body))
	}

	var out FeaturesResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("features decode: %w", err)
	}
	if out.Features == nil {
		return nil, fmt.Errorf("features: empty functional map")
	}
	return &out, nil
}
