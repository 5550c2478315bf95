// Package archive reads note batches from zip archives and local files.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.BatchLoader = (*Loader)(nil)

// MaxMemberSize bounds the uncompressed size of one archive member.
const MaxMemberSize = 64 << 20

// IsZip reports whether data starts with the zip local file header magic.
func IsZip(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK"))
}

// ReadArchive returns the file members of a zip archive in archive order.
// Directory entries are skipped.
func ReadArchive(data []byte) ([]domain.BatchMember, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	members := make([]domain.BatchMember, 0, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		content, err := readMember(file)
		if err != nil {
			return nil, err
		}
		members = append(members, domain.BatchMember{Name: file.Name, Content: content})
	}
	return members, nil
}

func readMember(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, file.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, MaxMemberSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, file.Name, err)
	}
	if len(content) > MaxMemberSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidInput, file.Name, MaxMemberSize)
	}
	return content, nil
}

// Loader builds batches from paths on local disk. A path may be a zip
// archive, a single .docx document or a directory searched for .docx files.
type Loader struct{}

// NewLoader creates a loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every path into one batch. Failures are reported as
// *domain.RetrievalError.
func (l *Loader) Load(ctx context.Context, paths []string) (*domain.DocumentBatch, error) {
	if len(paths) == 0 {
		return nil, &domain.RetrievalError{Op: "load", Err: fmt.Errorf("%w: no paths given", domain.ErrInvalidInput)}
	}

	batch := &domain.DocumentBatch{Source: strings.Join(paths, ", ")}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		members, err := l.loadPath(p)
		if err != nil {
			return nil, &domain.RetrievalError{Op: "load " + p, Err: err}
		}
		batch.Members = append(batch.Members, members...)
	}
	return batch, nil
}

func (l *Loader) loadPath(p string) ([]domain.BatchMember, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return l.loadDir(p)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(p), ".docx") {
		return []domain.BatchMember{{Name: filepath.Base(p), Content: data}}, nil
	}
	if !IsZip(data) {
		return nil, fmt.Errorf("%w: %s is neither a zip archive nor a .docx document", domain.ErrUnsupportedType, p)
	}
	return ReadArchive(data)
}

// loadDir collects .docx files below dir, named relative to it.
func (l *Loader) loadDir(dir string) ([]domain.BatchMember, error) {
	var members []domain.BatchMember
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".docx") {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		members = append(members, domain.BatchMember{Name: filepath.ToSlash(rel), Content: data})
		return nil
	})
	return members, err
}
