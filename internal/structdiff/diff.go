// Package structdiff computes deep, path-based structural diffs between two
// snapshots of an object. It is pure: output depends only on the two snapshots
// and the whitelist, never on mutation order.
package structdiff

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Snapshot converts v into a plain map via its JSON form. Taking a snapshot
// before mutating the source value decouples the diff from any later in-place
// changes. Dates marshal to RFC 3339 strings, so they compare textually.
func Snapshot(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return out, nil
}

// Changed diffs two values restricted to the whitelisted top-level keys and
// returns the sorted, deduplicated dotted paths whose value differs.
func Changed(before, after any, whitelist []string) ([]string, error) {
	bm, err := Snapshot(before)
	if err != nil {
		return nil, err
	}
	am, err := Snapshot(after)
	if err != nil {
		return nil, err
	}
	return ChangedPaths(bm, am, whitelist), nil
}

// ChangedPaths diffs two snapshot maps restricted to the whitelisted top-level
// keys. Arrays are treated as leaf values: replacing, reordering or resizing an
// array marks the array's own path, not per-element paths.
func ChangedPaths(before, after map[string]any, whitelist []string) []string {
	allowed := make(map[string]bool, len(whitelist))
	for _, key := range whitelist {
		allowed[key] = true
	}

	bf := map[string]string{}
	af := map[string]string{}
	for key, v := range before {
		if allowed[key] {
			flatten(key, v, bf)
		}
	}
	for key, v := range after {
		if allowed[key] {
			flatten(key, v, af)
		}
	}

	seen := map[string]bool{}
	var paths []string
	for path, bv := range bf {
		if av, ok := af[path]; !ok || av != bv {
			if !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
		}
	}
	for path := range af {
		if _, ok := bf[path]; !ok && !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	if paths == nil {
		paths = []string{}
	}
	return paths
}

// flatten writes dotted-path -> stringified-leaf pairs into out. Maps recurse;
// everything else, arrays included, is a leaf.
func flatten(prefix string, v any, out map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 0 {
			out[prefix] = "{}"
			return
		}
		for k, child := range val {
			flatten(prefix+"."+k, child, out)
		}
	default:
		out[prefix] = stringify(v)
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		if normalized, ok := normalizeDate(val); ok {
			return normalized
		}
		return strconv.Quote(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		// Arrays and any nested composites inside them. encoding/json sorts
		// map keys, so this representation is stable.
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// normalizeDate collapses equivalent timestamp spellings to UTC RFC 3339.
func normalizeDate(s string) (string, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(time.RFC3339Nano), true
}
