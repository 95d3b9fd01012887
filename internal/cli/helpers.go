package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
)

// parseID parses a positional issue id argument, rejecting anything that
// is not a positive integer (§3: ids are autoincrementing integers).
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.InvalidValuef("invalid issue id %q", raw)
	}
	return id, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseStatuses(raw string) ([]types.Status, error) {
	var out []types.Status
	for _, s := range splitCSV(raw) {
		st := types.Status(s)
		if !st.Valid() {
			return nil, errs.InvalidValuef("invalid status %q", s)
		}
		out = append(out, st)
	}
	return out, nil
}

func parsePriorities(raw string) ([]types.Priority, error) {
	var out []types.Priority
	for _, s := range splitCSV(raw) {
		p := types.Priority(s)
		if !p.Valid() {
			return nil, errs.InvalidValuef("invalid priority %q", s)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseKinds(raw string) ([]types.Kind, error) {
	var out []types.Kind
	for _, s := range splitCSV(raw) {
		k := types.Kind(s)
		if !k.Valid() {
			return nil, errs.InvalidValuef("invalid kind %q", s)
		}
		out = append(out, k)
	}
	return out, nil
}

// readStdinOrFile opens path and returns it with a func that closes it, or
// returns stdin and a no-op close func when path is "-" or empty (§6 Streams: commands that accept a document read from stdin
// by default).
func readStdinOrFile(path string) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errs.IoErrorf(err, "open input file")
	}
	return f, func() { _ = f.Close() }, nil
}
