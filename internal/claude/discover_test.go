package claude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickLatestVersion(t *testing.T) {
	tests := []struct {
		name string
		dirs []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"2.1.49"}, "2.1.49"},
		{"picks highest", []string{"2.1.47", "2.1.49", "2.1.48"}, "2.1.49"},
		{"ignores non-version names", []string{"2.1.49", "staging", ".DS_Store"}, "2.1.49"},
		{"only non-version names", []string{"staging", "tmp"}, ""},
		{"major versions", []string{"1.0.80", "2.0.1"}, "2.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickLatestVersion(tt.dirs))
		})
	}
}

func TestFindVendorBinary(t *testing.T) {
	root := t.TempDir()

	writeBinary := func(version string) string {
		dir := filepath.Join(root, version)
		require.NoError(t, os.MkdirAll(dir, 0755))
		bin := filepath.Join(dir, "claude")
		require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))
		return bin
	}

	t.Run("empty root", func(t *testing.T) {
		assert.Empty(t, findVendorBinary(root))
	})

	t.Run("picks newest version", func(t *testing.T) {
		writeBinary("2.1.47")
		want := writeBinary("2.1.49")
		assert.Equal(t, want, findVendorBinary(root))
	})

	t.Run("skips version dir without executable", func(t *testing.T) {
		// Newer dir exists but has no claude binary inside
		require.NoError(t, os.MkdirAll(filepath.Join(root, "2.1.50"), 0755))
		want := filepath.Join(root, "2.1.49", "claude")
		assert.Equal(t, want, findVendorBinary(root))
	})

	t.Run("skips non-executable file", func(t *testing.T) {
		dir := filepath.Join(root, "2.1.51")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "claude"), []byte("x"), 0644))
		want := filepath.Join(root, "2.1.49", "claude")
		assert.Equal(t, want, findVendorBinary(root))
	})

	t.Run("missing root", func(t *testing.T) {
		assert.Empty(t, findVendorBinary(filepath.Join(root, "nope")))
	})
}

func TestFindBinaryExplicit(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "claude")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))

	got, err := FindBinary(bin)
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	_, err = FindBinary(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestCheckExecutable(t *testing.T) {
	dir := t.TempDir()

	assert.Error(t, checkExecutable(dir), "directories are not executables")
	assert.Error(t, checkExecutable(filepath.Join(dir, "missing")))

	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, []byte("x"), 0644))
	assert.Error(t, checkExecutable(plain))

	exe := filepath.Join(dir, "exe")
	require.NoError(t, os.WriteFile(exe, []byte("x"), 0755))
	assert.NoError(t, checkExecutable(exe))
}
