package testsupport

import (
	"encoding/json"
	"os"
	"testing"
)

// LoadGolden decodes the JSON document at path into v and fails tb when the
// file is missing or malformed.
func LoadGolden(tb testing.TB, path string, v any) {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read golden %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		tb.Fatalf("decode golden %s: %v", path, err)
	}
}
