package docx

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
)

// Ensure Runs implements the interface.
var _ driven.TextExtractor = (*Runs)(nil)

// RunsName is the strategy name of Runs.
const RunsName = string(domain.ExtractionRuns)

// Runs concatenates every text node of the body part in document order,
// ending each paragraph with a newline. The decoder is lenient so that
// slightly malformed parts still yield text.
type Runs struct{}

// NewRuns creates the text-run extractor.
func NewRuns() *Runs {
	return &Runs{}
}

// Name returns the strategy name.
func (r *Runs) Name() string { return RunsName }

// Priority returns the selection priority.
func (r *Runs) Priority() int {
	return 5 // Fallback strategy
}

// Probe extracts the built-in probe document.
func (r *Runs) Probe(ctx context.Context) error {
	return probe(ctx, r)
}

// Extract returns the text of member.
func (r *Runs) Extract(ctx context.Context, member domain.BatchMember) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := readPart(member.Content, DocumentPart)
	if err != nil {
		return "", &domain.ExtractionError{Member: member.Name, Strategy: RunsName, Err: err}
	}

	text, err := streamText(data)
	if err != nil {
		return "", &domain.ExtractionError{
			Member:   member.Name,
			Strategy: RunsName,
			Err:      fmt.Errorf("%w: %v", domain.ErrInvalidInput, err),
		}
	}
	return text, nil
}

func streamText(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	var (
		b      strings.Builder
		parent []string
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep what was read before the damage.
			if b.Len() > 0 {
				break
			}
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := ""
			if isWord(t.Name) {
				local = t.Name.Local
			}
			inRun := len(parent) > 0 && parent[len(parent)-1] == "r"
			switch {
			case local == "t":
				inText = true
			case local == "tab" && inRun:
				b.WriteByte('\t')
			case (local == "br" || local == "cr") && inRun:
				b.WriteByte('\n')
			}
			parent = append(parent, local)
		case xml.EndElement:
			if len(parent) > 0 {
				parent = parent[:len(parent)-1]
			}
			if !isWord(t.Name) {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
