package keep

import (
	"fmt"
	"io"
	"sort"
)

// KeyPaths returns the dotted/bracketed key path of every container and
// leaf in a decoded JSON structure. Map keys are visited in sorted order
// so output is deterministic.
//
// Example output for a note file:
//
//	annotations
//	annotations[0]
//	annotations[0].url
//	textContent
//	title
func KeyPaths(data any) []string {
	var paths []string
	collectKeyPaths(data, "", &paths)
	return paths
}

// PrintKeys writes one key path per line to w.
func PrintKeys(w io.Writer, data any) error {
	for _, path := range KeyPaths(data) {
		if _, err := fmt.Fprintln(w, path); err != nil {
			return err
		}
	}
	return nil
}

func collectKeyPaths(data any, prefix string, paths *[]string) {
	switch v := data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			fullKey := key
			if prefix != "" {
				fullKey = prefix + "." + key
			}
			*paths = append(*paths, fullKey)
			collectKeyPaths(v[key], fullKey, paths)
		}

	case []any:
		for index, item := range v {
			fullKey := fmt.Sprintf("%s[%d]", prefix, index)
			*paths = append(*paths, fullKey)
			collectKeyPaths(item, fullKey, paths)
		}
	}
}
