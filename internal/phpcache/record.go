package phpcache

import (
	"encoding/json"
	"fmt"

	"github.com/doITmagic/phpindex/internal/phpindex"
)

// encodeRecord renders an Analysis as the self-describing JSON blob stored
// in a bucket: the URI travels inside the payload alongside the symbol
// tree and reference list, so a bucket scan never needs to consult
// anything outside the record itself to confirm a match.
func encodeRecord(analysis *phpindex.Analysis) (string, error) {
	b, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("encode record for %s: %w", analysis.URI, err)
	}
	return string(b), nil
}

func decodeRecord(raw string) (*phpindex.Analysis, error) {
	var analysis phpindex.Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &analysis, nil
}
