package docx

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
)

// Ensure Structured implements the interface.
var _ driven.TextExtractor = (*Structured)(nil)

// StructuredName is the strategy name of Structured.
const StructuredName = string(domain.ExtractionStructured)

// Structured reads the document model: body paragraphs first, then the
// text of every table cell in row-major order.
type Structured struct{}

// NewStructured creates the structured extractor.
func NewStructured() *Structured {
	return &Structured{}
}

// Name returns the strategy name.
func (s *Structured) Name() string { return StructuredName }

// Priority returns the selection priority.
func (s *Structured) Priority() int {
	return 50 // Model-based strategy
}

// Probe extracts the built-in probe document.
func (s *Structured) Probe(ctx context.Context) error {
	return probe(ctx, s)
}

// Extract returns the text of member.
func (s *Structured) Extract(ctx context.Context, member domain.BatchMember) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := readPart(member.Content, DocumentPart)
	if err != nil {
		return "", &domain.ExtractionError{Member: member.Name, Strategy: StructuredName, Err: err}
	}

	doc, err := parseDocument(data)
	if err != nil {
		return "", &domain.ExtractionError{
			Member:   member.Name,
			Strategy: StructuredName,
			Err:      fmt.Errorf("%w: %v", domain.ErrInvalidInput, err),
		}
	}
	return doc.text(), nil
}

// document is the part of the model that carries text.
type document struct {
	paragraphs []string
	tables     []table
}

type table struct {
	rows []row
}

type row struct {
	cells []cell
}

// cell holds its paragraphs and any tables nested in it.
type cell struct {
	paragraphs []string
	tables     []table
}

func (d *document) text() string {
	lines := append([]string(nil), d.paragraphs...)
	for _, t := range d.tables {
		lines = t.appendCells(lines)
	}
	return strings.Join(lines, "\n")
}

func (t table) appendCells(lines []string) []string {
	for _, r := range t.rows {
		for _, c := range r.cells {
			lines = append(lines, strings.Join(c.paragraphs, "\n"))
			for _, nested := range c.tables {
				lines = nested.appendCells(lines)
			}
		}
	}
	return lines
}

var errNoBody = errors.New("document has no body")

func parseDocument(data []byte) (*document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errNoBody
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || !isWord(start.Name) || start.Name.Local != "body" {
			continue
		}

		doc := &document{}
		if err := parseBlocks(dec, &doc.paragraphs, &doc.tables); err != nil {
			return nil, err
		}
		return doc, nil
	}
}

// parseBlocks reads block content up to the end of the enclosing element.
// Content controls and tracked insertions are read through.
func parseBlocks(dec *xml.Decoder, paragraphs *[]string, tables *[]table) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			if !isWord(t.Name) {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			switch t.Name.Local {
			case "p":
				text, err := parseParagraph(dec)
				if err != nil {
					return err
				}
				*paragraphs = append(*paragraphs, text)
			case "tbl":
				tbl, err := parseTable(dec)
				if err != nil {
					return err
				}
				*tables = append(*tables, tbl)
			default:
				if isWrapper(t.Name.Local) {
					if err := parseBlocks(dec, paragraphs, tables); err != nil {
						return err
					}
					continue
				}
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		}
	}
}

// parseParagraph concatenates the text nodes of one w:p.
func parseParagraph(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	inText := false
	for depth := 1; depth > 0; {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !isWord(t.Name) {
				if err := dec.Skip(); err != nil {
					return "", err
				}
				continue
			}
			switch t.Name.Local {
			case "pPr", "rPr", "drawing", "pict", "delText":
				if err := dec.Skip(); err != nil {
					return "", err
				}
				continue
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
			depth++
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

// isWrapper reports whether a w: element only wraps the content it holds.
func isWrapper(local string) bool {
	switch local {
	case "sdt", "sdtContent", "customXml", "ins", "smartTag":
		return true
	}
	return false
}

func parseTable(dec *xml.Decoder) (table, error) {
	var tbl table
	err := parseRows(dec, &tbl.rows)
	return tbl, err
}

// parseRows reads rows up to the end of the enclosing element, reading
// through row-level content controls.
func parseRows(dec *xml.Decoder, rows *[]row) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			switch {
			case isWord(t.Name) && t.Name.Local == "tr":
				var r row
				if err := parseCells(dec, &r.cells); err != nil {
					return err
				}
				*rows = append(*rows, r)
			case isWord(t.Name) && isWrapper(t.Name.Local):
				if err := parseRows(dec, rows); err != nil {
					return err
				}
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		}
	}
}

// parseCells reads cells up to the end of the enclosing element, reading
// through cell-level content controls.
func parseCells(dec *xml.Decoder, cells *[]cell) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			switch {
			case isWord(t.Name) && t.Name.Local == "tc":
				var c cell
				if err := parseBlocks(dec, &c.paragraphs, &c.tables); err != nil {
					return err
				}
				*cells = append(*cells, c)
			case isWord(t.Name) && isWrapper(t.Name.Local):
				if err := parseCells(dec, cells); err != nil {
					return err
				}
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		}
	}
}
