package wordlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "common.txt")
	content := "password\n123456\n\n  QWERTY  \nletmein\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := Load(path)

	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Contains("password"))
	assert.True(t, s.Contains("letmein"))
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "does-not-exist.txt"))

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains("password"))
}

func TestContainsIsCaseInsensitive(t *testing.T) {
	s := New([]string{"Password", "QWERTY"})

	assert.True(t, s.Contains("password"))
	assert.True(t, s.Contains("PASSWORD"))
	assert.True(t, s.Contains("qwerty"))
	assert.True(t, s.Contains("QwErTy"))
	assert.False(t, s.Contains("hunter2"))
}

func TestEmptySet(t *testing.T) {
	assert.False(t, New(nil).Contains("anything"))

	var s *Set
	assert.False(t, s.Contains("anything"))
	assert.Equal(t, 0, s.Len())
}
