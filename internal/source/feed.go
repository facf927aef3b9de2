package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// LoadBatch reads one extracted raw batch: a JSON-lines file with one
// RawRecord per line, as written by the extraction script. The extractor is
// an external collaborator; by the time a batch lands here it is a complete,
// deterministic set of rows.
func LoadBatch(path string) ([]types.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening batch %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var records []types.RawRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec types.RawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading batch %s: %w", path, err)
	}
	return records, nil
}

// LoadBatches loads all registered datasets from dir, keyed by logical
// dataset name. Batch files are named after the upstream source code
// (e.g. une_rt_m.jsonl). A missing file yields an empty batch, not an error:
// a dataset that produced no extraction this run is informationally empty.
func LoadBatches(reg *Registry, dir string) (map[string][]types.RawRecord, error) {
	batches := make(map[string][]types.RawRecord)
	for _, spec := range reg.List() {
		path := filepath.Join(dir, spec.SourceCode+".jsonl")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			batches[spec.Name] = nil
			continue
		}
		records, err := LoadBatch(path)
		if err != nil {
			return nil, fmt.Errorf("loading dataset %s: %w", spec.Name, err)
		}
		batches[spec.Name] = records
	}
	return batches, nil
}
