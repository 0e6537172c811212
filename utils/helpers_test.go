package utils

import (
	"encoding/json"
	"io"
	"testing"
)

func decode(t *testing.T, r io.Reader) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}
