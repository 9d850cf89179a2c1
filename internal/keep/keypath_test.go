package keep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
)

func TestKeyPaths(t *testing.T) {
	var data any
	if err := json.Unmarshal([]byte(`{
		"title": "x",
		"annotations": [{"url": "https://example.com"}],
		"isTrashed": false
	}`), &data); err != nil {
		t.Fatal(err)
	}

	paths := KeyPaths(data)
	want := []string{
		"annotations",
		"annotations[0]",
		"annotations[0].url",
		"isTrashed",
		"title",
	}
	if fmt.Sprint(paths) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, paths)
	}
}

func TestKeyPathsDeterministic(t *testing.T) {
	var data any
	json.Unmarshal([]byte(`{"b":1,"a":1,"c":{"z":1,"y":1}}`), &data)

	first := fmt.Sprint(KeyPaths(data))
	for i := 0; i < 10; i++ {
		if got := fmt.Sprint(KeyPaths(data)); got != first {
			t.Fatalf("non-deterministic output: %s vs %s", first, got)
		}
	}
}

func TestKeyPathsScalar(t *testing.T) {
	if paths := KeyPaths("just a string"); len(paths) != 0 {
		t.Errorf("expected no paths for a scalar, got %v", paths)
	}
}

func TestPrintKeys(t *testing.T) {
	var data any
	json.Unmarshal([]byte(`{"a":1,"b":[true]}`), &data)

	var buf bytes.Buffer
	if err := PrintKeys(&buf, data); err != nil {
		t.Fatalf("PrintKeys failed: %v", err)
	}

	want := "a\nb\nb[0]\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
