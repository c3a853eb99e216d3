package notation

import (
	"regexp"
	"strings"
)

// tokenKind classifies one trimmed line of a workout log.
type tokenKind int

const (
	tokOther tokenKind = iota
	tokTitle
	tokDate
	tokSeparator
	tokExerciseDef
	tokListItem
	tokComment
)

func (k tokenKind) String() string {
	switch k {
	case tokTitle:
		return "title"
	case tokDate:
		return "date"
	case tokSeparator:
		return "separator"
	case tokExerciseDef:
		return "exercise"
	case tokListItem:
		return "item"
	case tokComment:
		return "comment"
	default:
		return "other"
	}
}

var (
	// separatorRe matches a run of three or more dashes: "---"
	separatorRe = regexp.MustCompile(`^-{3,}$`)

	// dateRe matches: 20/02/2025 or 20/02/2025 18:30
	dateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:\s+(\d{1,2}):(\d{2}))?$`)

	// exerciseDefRe matches: Bench Press (4x8) : 45kg A, / C7
	exerciseDefRe = regexp.MustCompile(`^(.+?)\s*\(\s*(\d+)\s*[xX*]\s*([^)]*?)\s*\)\s*:?\s*(.*)$`)

	// commentLineRe matches a line holding nothing but a quoted comment: 'felt strong'
	commentLineRe = regexp.MustCompile(`^'([^']*)'$`)
)

// token is one classified line. Fields are populated according to kind.
type token struct {
	kind tokenKind
	line string

	title string

	name       string // exercise name
	targetSets string
	target     string
	detail     string // inline set descriptions after the definition

	item    string // list item body without the leading dash
	comment string
}

// lex classifies a single line. The line is trimmed first; indentation carries
// no meaning in the notation.
func lex(line string) token {
	line = strings.TrimSpace(line)
	tok := token{kind: tokOther, line: line}

	switch {
	case line == "":
		return tok

	case line == "#" || strings.HasPrefix(line, "# "):
		tok.kind = tokTitle
		tok.title = strings.TrimSpace(line[1:])
		return tok

	case separatorRe.MatchString(line):
		tok.kind = tokSeparator
		return tok

	case strings.HasPrefix(line, "-"):
		tok.kind = tokListItem
		tok.item = strings.TrimSpace(line[1:])
		return tok

	case dateRe.MatchString(line):
		tok.kind = tokDate
		return tok
	}

	if m := commentLineRe.FindStringSubmatch(line); m != nil {
		tok.kind = tokComment
		tok.comment = strings.TrimSpace(m[1])
		return tok
	}

	if m := exerciseDefRe.FindStringSubmatch(line); m != nil {
		tok.kind = tokExerciseDef
		tok.name = strings.TrimSpace(m[1])
		tok.targetSets = m[2]
		tok.target = m[3]
		tok.detail = strings.TrimSpace(m[4])
		return tok
	}

	return tok
}
