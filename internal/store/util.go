package store

import (
	"encoding/json"

	"github.com/nit-tools/nit/internal/nit/errs"
)

// encodeStrings renders a string slice as JSON text for storage in the
// files/tags columns (§3: "Blank fields serialize as ... [] — never as
// null"). A nil or empty slice always encodes as "[]".
func encodeStrings(ss []string) string {
	if len(ss) == 0 {
		return "[]"
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// decodeStrings parses a files/tags column back into a string slice,
// normalizing a missing or malformed value to an empty (non-nil) slice.
func decodeStrings(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	if out == nil {
		return []string{}
	}
	return out
}

// dedupPreserveOrder removes duplicate entries from ss keeping the first
// occurrence of each, matching §3 invariant 5 (no duplicates, insertion
// order preserved).
func dedupPreserveOrder(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	return errs.DbErrorf(err, op)
}
