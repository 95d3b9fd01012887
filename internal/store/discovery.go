package store

import (
	"os"
	"path/filepath"

	"github.com/nit-tools/nit/internal/nit/errs"
)

// DBFileName is the fixed on-disk file name for a nit database (§6).
const DBFileName = ".nit.db"

// EnvDBPath is the environment variable consulted when --db is absent
// (§4.1 Discovery, §6).
const EnvDBPath = "NIT_DB_PATH"

// Resolve implements the database discovery protocol (§4.1):
//
//  1. the explicit --db flag, if non-empty
//  2. the NIT_DB_PATH environment variable, if set
//  3. walking upward from the current working directory for .nit.db
//
// requireExisting controls whether a miss is an error: every command
// except `init` and `schema` requires a database to already exist (§4.1).
func Resolve(flagDB string, requireExisting bool) (string, error) {
	if flagDB != "" {
		abs, err := filepath.Abs(flagDB)
		if err != nil {
			return "", errs.IoErrorf(err, "resolve --db path")
		}
		return abs, nil
	}

	if env := os.Getenv(EnvDBPath); env != "" {
		abs, err := filepath.Abs(env)
		if err != nil {
			return "", errs.IoErrorf(err, "resolve "+EnvDBPath)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errs.IoErrorf(err, "get working directory")
	}

	dir := cwd
	for {
		candidate := filepath.Join(dir, DBFileName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if requireExisting {
		return "", errs.NoDatabasef("no %s found walking up from %s (set --db or %s)", DBFileName, cwd, EnvDBPath)
	}

	// init/schema without discovery: create in the current directory.
	return filepath.Join(cwd, DBFileName), nil
}

// Exists reports whether a database file is already present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
