// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ContactEmailKey, "  ops@example.org  \n")
				writeFile(t, dir, "other-key", "value")
				return dir
			},
			want: map[string]string{
				ContactEmailKey: "ops@example.org",
				"other-key":     "value",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ContactEmailKey, "ops@example.org")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{ContactEmailKey: "ops@example.org"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden", "secret")
				writeFile(t, dir, ContactEmailKey, "ops@example.org")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{ContactEmailKey: "ops@example.org"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, filepath.Dir(path), "file", "x")

	_, err := Load(path, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading secrets directory")
}

func TestLoad_UnreadableFileIsLogged(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	dir := t.TempDir()
	writeFile(t, dir, ContactEmailKey, "ops@example.org")
	writeFile(t, dir, "locked", "x")
	require.NoError(t, os.Chmod(filepath.Join(dir, "locked"), 0o000))

	var buf bytes.Buffer
	got, err := Load(dir, zerolog.New(&buf))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{ContactEmailKey: "ops@example.org"}, got)
	assert.Contains(t, buf.String(), `"secret":"locked"`)
}

func TestUserAgent(t *testing.T) {
	tests := []struct {
		base, email, want string
	}{
		{"arxiv-authors/0.1", "", "arxiv-authors/0.1"},
		{"arxiv-authors/0.1", "ops@example.org", "arxiv-authors/0.1 (mailto:ops@example.org)"},
		{"arxiv-authors/0.1 (mailto:a@b.c)", "ops@example.org", "arxiv-authors/0.1 (mailto:a@b.c)"},
		{"", "ops@example.org", "mailto:ops@example.org"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserAgent(tt.base, tt.email), "base=%q email=%q", tt.base, tt.email)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
