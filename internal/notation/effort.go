package notation

import (
	"regexp"
	"strings"

	"github.com/claude/liftnotes/internal/models"
)

var (
	// quotedCommentRe matches an inline comment: 'core fatigue'
	quotedCommentRe = regexp.MustCompile(`'([^']*)'`)

	// slashSpaceRe collapses spacing around drop-set slashes: "80 / 70kg" -> "80/70kg"
	slashSpaceRe = regexp.MustCompile(`\s*/\s*`)

	// completionBlockRe matches a drop-set completion block: A, C7/5, C1min/45s, 8/B
	completionBlockRe = regexp.MustCompile(`^[ABC]?[0-9mins]*(?:/[ABC]?[0-9mins]*)*$`)
)

// parseSetLine parses one set description, either a list item body or the
// inline detail of an exercise definition. Comma-separated pieces become
// distinct sets. A quoted comment is attached to the last set; when no set is
// produced the comment is returned as orphan for the caller to keep.
func parseSetLine(desc string, target models.Target) (sets []models.Set, orphan string) {
	desc, comment := stripComment(desc)

	for _, piece := range splitPieces(desc) {
		sets = append(sets, models.Set{Efforts: parseEfforts(piece, target)})
	}

	if comment != "" {
		if len(sets) == 0 {
			return nil, comment
		}
		sets[len(sets)-1].Comment = comment
	}
	return sets, ""
}

// stripComment removes the first quoted comment from s.
func stripComment(s string) (string, string) {
	loc := quotedCommentRe.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, ""
	}
	comment := strings.TrimSpace(s[loc[2]:loc[3]])
	return s[:loc[0]] + " " + s[loc[1]:], comment
}

// splitPieces splits a description on commas. Commas always separate sets,
// whether the neighbours are repeat markers or full descriptions; drop sets
// never contain commas. Empty pieces are dropped.
func splitPieces(s string) []string {
	var pieces []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// parseEfforts parses a single set description into its efforts. Precedence
// is repeat marker, then drop set, then plain effort.
func parseEfforts(piece string, target models.Target) []models.Effort {
	if strings.HasPrefix(piece, "/") {
		return []models.Effort{parseRepeat(strings.TrimSpace(piece[1:]), target)}
	}
	p := slashSpaceRe.ReplaceAllString(piece, "/")
	if strings.Contains(p, "/") {
		return parseDropSet(p, target)
	}
	return []models.Effort{parsePlain(p, target)}
}

// parseRepeat builds a repeat-flagged effort. An explicit state on the marker
// ("/ C7") overrides the state and value the resolver would otherwise copy.
func parseRepeat(rest string, target models.Target) models.Effort {
	e := models.Effort{IsRepeat: true, Result: models.ZeroResult(target)}
	for _, f := range strings.Fields(rest) {
		if state, value, ok := splitStateToken(f, target); ok {
			e.Result = stateResult(state, value, target)
			break
		}
	}
	return e
}

// parsePlain parses a single effort: an optional load and an optional state
// letter with an attached value, in either order.
func parsePlain(p string, target models.Target) models.Effort {
	e := models.Effort{Result: models.ZeroResult(target)}
	stateSeen := false

	for _, f := range strings.Fields(p) {
		if !stateSeen {
			if state, value, ok := splitStateToken(f, target); ok {
				stateSeen = true
				e.Result = stateResult(state, value, target)
				continue
			}
		}
		if e.Load == nil && isLoad(f) {
			l := parseLoad(f)
			e.Load = &l
			continue
		}
		if f == "kg" && e.Load != nil {
			e.Load.Unit = models.LoadKg
		}
	}
	return e
}

// completion is one per-resistance entry of a drop-set completion block.
type completion struct {
	state models.CompletionState
	value string
}

// parseDropSet parses "80/70/60kg C8/6/4" style descriptions. Resistances pair
// positionally with completions. For repetition targets, when fewer
// completions than resistances are given, the final effort absorbs whatever
// remains of the target count. Without any completion every effort stays at
// zero.
func parseDropSet(p string, target models.Target) []models.Effort {
	var resistances []models.LoadValue
	var block strings.Builder
	explicitKg := false

	for _, f := range strings.Fields(p) {
		switch {
		case resistances == nil && strings.Contains(f, "/") && startsWithDigit(f):
			resistances = splitResistances(f)
		case f == "kg":
			explicitKg = true
		default:
			block.WriteString(f)
		}
	}
	if explicitKg {
		fillUnit(resistances, models.LoadKg)
	}

	var shared models.CompletionState
	var completions []completion
	if completionBlockRe.MatchString(block.String()) {
		shared, completions = parseCompletionBlock(block.String())
	}

	n := len(resistances)
	if n == 0 {
		n = len(completions)
	}
	if n == 0 {
		return []models.Effort{{Result: stateResult(shared, "", target)}}
	}

	efforts := make([]models.Effort, n)
	sum := 0
	for i := range efforts {
		if i < len(resistances) {
			l := resistances[i]
			efforts[i].Load = &l
		}
		state, value := shared, ""
		if i < len(completions) {
			if completions[i].state != models.StateNone {
				state = completions[i].state
			}
			value = completions[i].value
		}
		efforts[i].Result = stateResult(state, value, target)
		if i < len(completions) {
			sum += efforts[i].Result.Count
		}
	}

	if target.Kind == models.KindReps && len(completions) > 0 && len(completions) < n {
		last := &efforts[n-1].Result
		if last.State != models.StateA && last.State != models.StateB {
			last.Count = max(target.Count-sum, 0)
		}
	}
	return efforts
}

// splitResistances splits "80/70/60kg" into loads. A unit written on any
// resistance applies to the ones written without a unit.
func splitResistances(tok string) []models.LoadValue {
	var loads []models.LoadValue
	unit := models.LoadNone
	for _, part := range strings.Split(tok, "/") {
		if part == "" {
			continue
		}
		l := parseLoad(part)
		if l.Unit != models.LoadNone {
			unit = l.Unit
		}
		loads = append(loads, l)
	}
	fillUnit(loads, unit)
	return loads
}

func fillUnit(loads []models.LoadValue, unit models.LoadUnit) {
	if unit == models.LoadNone {
		return
	}
	for i := range loads {
		if loads[i].Unit == models.LoadNone {
			loads[i].Unit = unit
		}
	}
}

// parseCompletionBlock reads "C7/5", "A", "7/5" or "C7/B". A leading letter is
// shared by the whole drop set; a letter on an individual entry overrides it.
func parseCompletionBlock(s string) (models.CompletionState, []completion) {
	if s == "" {
		return models.StateNone, nil
	}
	shared := models.StateNone
	if st, ok := models.ParseState(s[:1]); ok {
		shared = st
		s = s[1:]
	}
	if s == "" {
		return shared, nil
	}

	var out []completion
	for _, part := range strings.Split(s, "/") {
		c := completion{value: part}
		if part != "" {
			if st, ok := models.ParseState(part[:1]); ok {
				c.state = st
				c.value = part[1:]
			}
		}
		out = append(out, c)
	}
	return shared, out
}

// splitStateToken recognises "A", "B", "C", "C7", "C55s", "C1min30s". The
// suffix, when present, must be a value of the target's kind or a plain integer.
func splitStateToken(f string, target models.Target) (models.CompletionState, string, bool) {
	if f == "" {
		return models.StateNone, "", false
	}
	state, ok := models.ParseState(f[:1])
	if !ok {
		return models.StateNone, "", false
	}
	value := f[1:]
	if value == "" {
		return state, "", true
	}
	if _, ok := parseValue(value, target); ok {
		return state, value, true
	}
	return models.StateNone, "", false
}

// stateResult types a result from a state letter and its optional value. A and
// B always mean the target was met; C keeps only an explicit value; no state
// leaves the value as written.
func stateResult(state models.CompletionState, value string, target models.Target) models.EffortResult {
	if state == models.StateA || state == models.StateB {
		return models.FullResult(target, state)
	}
	res := models.ZeroResult(target)
	if value != "" {
		if v, ok := parseValue(value, target); ok {
			res = v
		}
	}
	res.State = state
	return res
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
