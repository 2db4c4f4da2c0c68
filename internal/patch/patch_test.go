package patch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newBin = "/Users/justin/Library/Application Support/Claude/claude-code/2.2.0/claude"
const newUUID = "bf9c824b-0d5c-418a-a316-210f23e585cc"

func TestSetClaudeBinForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			"single-line quoted literal",
			"import os\nCLAUDE_BIN = '/old/claude'\nTAIL = 1\n",
		},
		{
			"single-line double-quoted",
			"import os\nCLAUDE_BIN = \"/old/claude\"\nTAIL = 1\n",
		},
		{
			"single-line expanduser call",
			"import os\nCLAUDE_BIN = os.path.expanduser('~/old/claude')\nTAIL = 1\n",
		},
		{
			"multi-line expanduser call",
			"import os\nCLAUDE_BIN = os.path.expanduser(\n    '~/old/claude'\n)\nTAIL = 1\n",
		},
		{
			"multi-line expanduser with trailing comma",
			"import os\nCLAUDE_BIN = os.path.expanduser(\n    '~/old/claude',\n)\nTAIL = 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := SetClaudeBin(tt.src, newBin)
			require.NoError(t, err)

			assert.Contains(t, out, "CLAUDE_BIN = '"+newBin+"'")
			assert.NotContains(t, out, "old/claude")

			// Everything around the assignment is preserved byte-for-byte
			assert.True(t, strings.HasPrefix(out, "import os\n"))
			assert.True(t, strings.HasSuffix(out, "TAIL = 1\n"))
		})
	}
}

func TestSetClaudeBinMissingAssignment(t *testing.T) {
	_, err := SetClaudeBin("import os\nOTHER = 1\n", newBin)
	assert.Error(t, err)

	// Indented assignment is not a module-level constant
	_, err = SetClaudeBin("def f():\n    CLAUDE_BIN = '/x'\n", newBin)
	assert.Error(t, err)
}

func TestSetClaudeBinEmptyValue(t *testing.T) {
	_, err := SetClaudeBin("CLAUDE_BIN = '/old'\n", "")
	assert.Error(t, err)
}

func TestSetSlackUUID(t *testing.T) {
	src := "SLACK_UUID = 'old-uuid'\nSLACK_TOOL = f'mcp__{SLACK_UUID}__slack_search'\n"

	out, err := SetSlackUUID(src, newUUID)
	require.NoError(t, err)
	assert.Contains(t, out, "SLACK_UUID = '"+newUUID+"'")
	assert.Contains(t, out, "SLACK_TOOL = f'mcp__{SLACK_UUID}__slack_search'")
}

func TestSetSlackUUIDEmptyLeavesUntouched(t *testing.T) {
	src := "SLACK_UUID = 'configured-before'\n"

	out, err := SetSlackUUID(src, "")
	require.NoError(t, err)
	assert.Equal(t, src, out, "empty identifier must not blank an existing value")
}

func TestPatchingIsIdempotent(t *testing.T) {
	src := "import os\nCLAUDE_BIN = os.path.expanduser(\n    '~/old/claude'\n)\nSLACK_UUID = 'old'\nTAIL = 1\n"

	once, err := SetClaudeBin(src, newBin)
	require.NoError(t, err)
	once, err = SetSlackUUID(once, newUUID)
	require.NoError(t, err)

	twice, err := SetClaudeBin(once, newBin)
	require.NoError(t, err)
	twice, err = SetSlackUUID(twice, newUUID)
	require.NoError(t, err)

	assert.Equal(t, once, twice, "re-patching with the same values must be byte-identical")
}

func TestApply(t *testing.T) {
	t.Run("patches file in place", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scan-companion.py")
		src := "#!/usr/bin/env python3\nCLAUDE_BIN = '/old'\nSLACK_UUID = 'old'\nprint('hi')\n"
		require.NoError(t, os.WriteFile(path, []byte(src), 0755))

		require.NoError(t, Apply(path, newBin, newUUID))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "CLAUDE_BIN = '"+newBin+"'")
		assert.Contains(t, string(data), "SLACK_UUID = '"+newUUID+"'")

		// Mode preserved
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	})

	t.Run("no-op when values already set", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scan-companion.py")
		src := "CLAUDE_BIN = '" + newBin + "'\nSLACK_UUID = '" + newUUID + "'\n"
		require.NoError(t, os.WriteFile(path, []byte(src), 0644))

		require.NoError(t, Apply(path, newBin, newUUID))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, src, string(data))
	})

	t.Run("missing file aborts", func(t *testing.T) {
		err := Apply(filepath.Join(t.TempDir(), "missing.py"), newBin, newUUID)
		assert.Error(t, err)
	})

	t.Run("unrecognized content aborts", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scan-companion.py")
		require.NoError(t, os.WriteFile(path, []byte("print('no constants here')\n"), 0644))

		err := Apply(path, newBin, newUUID)
		assert.Error(t, err)

		// File untouched on failure
		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, "print('no constants here')\n", string(data))
	})
}
