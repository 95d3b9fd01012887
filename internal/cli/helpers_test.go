package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nit-tools/nit/internal/nit/errs"
	"github.com/nit-tools/nit/internal/nit/types"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	_, err = parseID("abc")
	require.Error(t, err)
	require.Equal(t, errs.InvalidValue, errs.KindOf(err))
}

func TestSplitCSV(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitCSV("a, b"))
	require.Nil(t, splitCSV(""))
}

func TestParseStatusesPrioritiesKinds(t *testing.T) {
	st, err := parseStatuses("open,done")
	require.NoError(t, err)
	require.Equal(t, []types.Status{types.StatusOpen, types.StatusDone}, st)

	_, err = parseStatuses("bogus")
	require.Error(t, err)

	pr, err := parsePriorities("high,low")
	require.NoError(t, err)
	require.Equal(t, []types.Priority{types.PriorityHigh, types.PriorityLow}, pr)

	k, err := parseKinds("bug")
	require.NoError(t, err)
	require.Equal(t, []types.Kind{types.KindBug}, k)
}

func TestReadStdinOrFile(t *testing.T) {
	f, cleanup, err := readStdinOrFile("-")
	require.NoError(t, err)
	defer cleanup()
	require.Equal(t, os.Stdin, f)

	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"x"}`), 0o644))

	f, cleanup, err = readStdinOrFile(path)
	require.NoError(t, err)
	defer cleanup()
	require.NotEqual(t, os.Stdin, f)

	_, _, err = readStdinOrFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.Equal(t, errs.IoError, errs.KindOf(err))
}
