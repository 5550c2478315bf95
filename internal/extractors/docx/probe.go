package docx

import (
	"context"
	"fmt"
	"strings"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
)

// Probe document content. The goal line sits in the body and the label
// in a table cell so both extraction paths are exercised.
const (
	probeGoal  = "☒ GOAL#1: probe"
	probeLabel = "Group 1: Client Response(Goal#1/Obj1A): probe"
)

func probe(ctx context.Context, e driven.TextExtractor) error {
	content, err := Compose([]string{probeGoal}, [][]string{{probeLabel}})
	if err != nil {
		return err
	}

	text, err := e.Extract(ctx, domain.BatchMember{Name: "probe.docx", Content: content})
	if err != nil {
		return err
	}
	for _, want := range []string{probeGoal, probeLabel} {
		if !strings.Contains(text, want) {
			return fmt.Errorf("probe text missing %q", want)
		}
	}
	return nil
}
