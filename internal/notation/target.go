package notation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/liftnotes/internal/models"
)

var (
	// timeTargetRe matches a duration target: 1min, 45s
	timeTargetRe = regexp.MustCompile(`^(\d+)(min|s)$`)

	// timeExprRe matches a completion duration: 45s, 1min, 1min30s, 90
	timeExprRe = regexp.MustCompile(`^(?:(\d+)min)?(?:(\d+)s)?$|^(\d+)$`)

	// loadRe matches a resistance: 45kg, 42.5, 80 kg
	loadRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(kg)?$`)
)

// parseTarget reads the objective inside an exercise definition. Anything that
// is not a duration is a repetition count; non-numeric input counts as 0.
func parseTarget(s string) models.Target {
	s = strings.TrimSpace(s)
	if m := timeTargetRe.FindStringSubmatch(s); m != nil {
		return models.TimeTarget(models.TimeValue{Value: float64(atoi(m[1])), Unit: models.TimeUnit(m[2])})
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return models.RepsTarget(0)
	}
	return models.RepsTarget(n)
}

// parseTimeExpr reads a completion duration. "1min30s" is folded into 90 seconds.
func parseTimeExpr(s string) (models.TimeValue, bool) {
	if s == "" {
		return models.TimeValue{}, false
	}
	m := timeExprRe.FindStringSubmatch(s)
	if m == nil {
		return models.TimeValue{}, false
	}
	if m[3] != "" {
		return models.TimeValue{Value: float64(atoi(m[3]))}, true
	}
	mins, secs := m[1], m[2]
	switch {
	case mins != "" && secs != "":
		return models.TimeValue{Value: float64(atoi(mins))*60 + float64(atoi(secs)), Unit: models.TimeSeconds}, true
	case mins != "":
		return models.TimeValue{Value: float64(atoi(mins)), Unit: models.TimeMinutes}, true
	default:
		return models.TimeValue{Value: float64(atoi(secs)), Unit: models.TimeSeconds}, true
	}
}

// parseLoad reads a resistance token. Unparseable tokens yield a zero load.
func parseLoad(s string) models.LoadValue {
	m := loadRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return models.LoadValue{}
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return models.LoadValue{}
	}
	return models.LoadValue{Value: v, Unit: models.LoadUnit(m[2])}
}

// isLoad reports whether s is a well-formed resistance token.
func isLoad(s string) bool {
	return loadRe.MatchString(s)
}

// parseValue reads a completion value typed to the target: an integer for
// repetition targets, a duration for time targets.
func parseValue(s string, target models.Target) (models.EffortResult, bool) {
	res := models.ZeroResult(target)
	if target.Kind == models.KindTime {
		d, ok := parseTimeExpr(s)
		if !ok {
			return res, false
		}
		res.Duration = d
		return res, true
	}
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		return res, true
	}
	if err != nil {
		return res, false
	}
	res.Count = n
	return res, true
}

// atoi reads a digit run, returning 0 for anything that does not fit an int.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
