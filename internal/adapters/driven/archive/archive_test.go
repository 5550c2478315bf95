package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

func buildZip(t *testing.T, files map[string]string, order ...string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, name := range order {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReadArchive_KeepsOrderSkipsDirs(t *testing.T) {
	data := buildZip(t, map[string]string{
		"Ann/":          "",
		"Ann/1028.docx": "b",
		"Ann/1027.docx": "a",
	}, "Ann/", "Ann/1028.docx", "Ann/1027.docx")

	members, err := ReadArchive(data)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Ann/1028.docx", members[0].Name)
	assert.Equal(t, []byte("a"), members[1].Content)
}

func TestReadArchive_NotZip(t *testing.T) {
	_, err := ReadArchive([]byte("PK but not really"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIsZip(t *testing.T) {
	assert.True(t, IsZip([]byte("PK\x03\x04")))
	assert.False(t, IsZip([]byte("{\"error\":1}")))
	assert.False(t, IsZip(nil))
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()

	zipPath := filepath.Join(dir, "week.zip")
	require.NoError(t, os.WriteFile(zipPath,
		buildZip(t, map[string]string{"Ann/1027.docx": "a"}, "Ann/1027.docx"), 0o600))

	docPath := filepath.Join(dir, "1028.docx")
	require.NoError(t, os.WriteFile(docPath, []byte("b"), 0o600))

	notes := filepath.Join(dir, "notes")
	require.NoError(t, os.MkdirAll(filepath.Join(notes, "Bob"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(notes, "Bob", "1029.docx"), []byte("c"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(notes, "readme.txt"), []byte("skip"), 0o600))

	batch, err := NewLoader().Load(context.Background(), []string{zipPath, docPath, notes})
	require.NoError(t, err)

	names := make([]string, 0, len(batch.Members))
	for _, m := range batch.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Ann/1027.docx", "1028.docx", "Bob/1029.docx"}, names)
	assert.Contains(t, batch.Source, "week.zip")
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain"), 0o600))

	tests := []struct {
		name  string
		paths []string
		is    error
	}{
		{"no paths", nil, domain.ErrInvalidInput},
		{"missing file", []string{filepath.Join(dir, "nope.zip")}, os.ErrNotExist},
		{"not an archive", []string{txt}, domain.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(context.Background(), tt.paths)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRetrieval)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}
