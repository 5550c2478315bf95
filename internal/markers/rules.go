package markers

import (
	"fmt"
	"regexp"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

// Goal rule names.
const (
	RuleGlyph = "glyph"
	RuleBare  = "bare"
)

// LabelRule names a client-response label pattern.
type LabelRule = domain.LabelRule

// Label rules, re-exported for callers that only deal with the matcher.
const (
	LabelSpecific = domain.LabelRuleSpecific
	LabelGeneral  = domain.LabelRuleGeneral
)

// glyph is any symbol character or a bracketed ASCII box.
const glyph = `([\p{So}\x{22A0}]|\[[ xX]\])`

// Whitespace allowed inside a line, including no-break space.
const blank = `[ \t\x{00A0}]*`

type indexed [domain.GoalCount]*regexp.Regexp

func compile(format string) indexed {
	var res indexed
	for i := range res {
		res[i] = regexp.MustCompile(fmt.Sprintf(format, i+1))
	}
	return res
}

var (
	// "☒ GOAL#2: body" and "☒GOAL#2: body".
	glyphGoal = compile(glyph + blank + `GOAL#%d:` + blank + `([^\n]*)`)

	// "GOAL#2: body" with no glyph.
	bareGoal = compile(`GOAL#%d:` + blank + `([^\n]*)`)

	// "Group 1: Client Response(Goal#2/Obj2A): text". A colon may follow the
	// group number; otherwise the heading holds no colon before its body.
	specificLabel = compile(`(?i)Group` + blank + `%d\b:?[^:]*Client\s+Response[^\n]*(?-i:Goal#)\d+[^:]*[:\s]*[^\n]+`)
	generalLabel  = compile(`(?i)Group` + blank + `%d\b:?[^:]*Client\s+Response[^:]*[:\s]*[^\n]+`)

	goalReference = regexp.MustCompile(`Goal#(\d+)`)

	looseGoal  = regexp.MustCompile(`(?i)GOAL#\d+`)
	looseLabel = regexp.MustCompile(`(?i)Group\s+\d+[^:]*Client\s+Response[^:]*`)
)

func labelPatterns(rule LabelRule) indexed {
	if rule == LabelSpecific {
		return specificLabel
	}
	return generalLabel
}

// Glyph classes. Any other symbol found in the glyph position is UNKNOWN.
var (
	checkedGlyphs   = map[string]bool{"☒": true, "☑": true, "⊠": true, "■": true, "[x]": true, "[X]": true}
	uncheckedGlyphs = map[string]bool{"☐": true, "□": true, "▢": true, "[ ]": true}
)

func stateOf(g string) domain.CheckboxState {
	switch {
	case checkedGlyphs[g]:
		return domain.CheckboxChecked
	case uncheckedGlyphs[g]:
		return domain.CheckboxUnchecked
	default:
		return domain.CheckboxUnknown
	}
}
