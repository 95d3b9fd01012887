package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRootCommandRegistersEveryVerb(t *testing.T) {
	root := NewRootCommand()

	want := []string{
		"init", "add", "list", "get", "update", "close", "note",
		"depend", "undepend", "next", "ready", "batch", "graph",
		"stats", "export", "import", "doctor", "config", "schema",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, "command %q should be registered", name)
		require.Equal(t, name, cmd.Name())
	}
}

func TestConfigSetRequiresKeyAndValueWithoutFromFile(t *testing.T) {
	cmd := newConfigSetCmd()
	require.Error(t, cmd.Args(cmd, []string{"only-one"}))
	require.NoError(t, cmd.Args(cmd, []string{"key", "value"}))
}
