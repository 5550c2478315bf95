// Package docx extracts text from WordprocessingML (.docx) documents.
//
// Two strategies are provided. Structured walks the document model and
// emits body paragraphs followed by table cells. Runs streams every text
// node of the body part in document order and is the fallback when the
// model cannot be read.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

// DocumentPart is the archive member holding the document body.
const DocumentPart = "word/document.xml"

// Word processing namespaces. Strict documents use the purl.oclc.org form.
const (
	nsMain   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsStrict = "http://purl.oclc.org/ooxml/wordprocessingml/main"
)

func isWord(name xml.Name) bool {
	return name.Space == nsMain || name.Space == nsStrict
}

// readPart returns the bytes of one member of a docx archive.
func readPart(content []byte, part string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %v", domain.ErrInvalidInput, err)
	}

	for _, file := range reader.File {
		if file.Name != part {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, part, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, part, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, part)
}

// Compose writes a minimal docx holding the given body paragraphs
// followed by one table with a row per element of rows.
func Compose(paragraphs []string, rows [][]string) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	body.WriteString(`<w:document xmlns:w="` + nsMain + `"><w:body>`)
	for _, p := range paragraphs {
		if err := writeParagraph(&body, p); err != nil {
			return nil, err
		}
	}
	if len(rows) > 0 {
		body.WriteString("<w:tbl>")
		for _, row := range rows {
			body.WriteString("<w:tr>")
			for _, cell := range row {
				body.WriteString("<w:tc>")
				if err := writeParagraph(&body, cell); err != nil {
					return nil, err
				}
				body.WriteString("</w:tc>")
			}
			body.WriteString("</w:tr>")
		}
		body.WriteString("</w:tbl>")
	}
	body.WriteString("</w:body></w:document>")

	var out bytes.Buffer
	w := zip.NewWriter(&out)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypes)},
		{DocumentPart, body.Bytes()},
	}
	for _, p := range parts {
		f, err := w.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(p.data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeParagraph(buf *bytes.Buffer, text string) error {
	buf.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
	if err := xml.EscapeText(buf, []byte(text)); err != nil {
		return err
	}
	buf.WriteString("</w:t></w:r></w:p>")
	return nil
}

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`
