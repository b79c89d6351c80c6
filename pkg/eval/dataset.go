package eval

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/ragstack/rageval/pkg/errors"
	"github.com/ragstack/rageval/pkg/types"
)

// Dataset holds the samples of one evaluation run in input order
type Dataset struct {
	Samples []types.Sample `json:"samples"`
}

// LoadDataset reads a dataset from a JSON file. The file may hold
// either a bare sample array or an object with a "samples" field.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewWithCause(types.ErrorTypeNotFound, errors.ErrCodeNotFound,
			"failed to read dataset file", err).WithDetail("path", path)
	}
	return ParseDataset(data)
}

// ParseDataset decodes dataset JSON. Decoding failure is fatal; sample
// level problems are deferred to ValidateSample so one bad sample never
// sinks the run.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err == nil && ds.Samples != nil {
		return &ds, nil
	}

	var samples []types.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, errors.NewWithCause(types.ErrorTypeValidation, errors.ErrCodeInvalidInput,
			"dataset is not valid JSON", err)
	}
	return &Dataset{Samples: samples}, nil
}

// ValidateSample checks one sample against the input contract. The
// returned error, when non-nil, carries the malformed-sample code and
// the reason; the caller counts it in diagnostics and moves on.
func ValidateSample(sampleID int, s *types.Sample) error {
	if !types.HasContent(s.UserInput) {
		return errors.NewMalformedSampleError(sampleID, "user_input is empty")
	}
	for i, chunk := range s.RetrievedContexts {
		if !types.HasContent(chunk) {
			return errors.NewMalformedSampleError(sampleID, "retrieved_contexts holds an empty chunk").
				WithDetail("chunk_index", i)
		}
	}
	for i, ref := range s.ReferenceContexts {
		if !types.HasContent(ref) {
			return errors.NewMalformedSampleError(sampleID, "reference_contexts holds an empty chunk").
				WithDetail("chunk_index", i)
		}
	}
	return nil
}

// Fingerprint returns a stable content hash of the dataset, used as the
// dataset component of result cache keys.
func (d *Dataset) Fingerprint() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for i := range d.Samples {
		// Encode errors cannot happen for plain string fields
		_ = enc.Encode(&d.Samples[i])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// UniqueTexts returns the deduplicated set of texts needing embeddings:
// every retrieved chunk and reference chunk, in first-seen order.
func (d *Dataset) UniqueTexts() []string {
	seen := make(map[string]bool)
	var texts []string
	add := func(t string) {
		if !seen[t] && types.HasContent(t) {
			seen[t] = true
			texts = append(texts, t)
		}
	}
	for i := range d.Samples {
		for _, c := range d.Samples[i].RetrievedContexts {
			add(c)
		}
		for _, r := range d.Samples[i].ReferenceContexts {
			add(r)
		}
	}
	return texts
}
