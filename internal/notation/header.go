package notation

import (
	"strconv"
	"time"
)

// header is the session-level metadata found in a chunk.
type header struct {
	title string
	date  *time.Time
}

// extractHeader takes the first title line and the first date line out of a
// chunk and returns the remaining tokens in their original order.
func extractHeader(c chunk) (header, chunk) {
	var h header
	var rest chunk
	titleSeen, dateSeen := false, false

	for _, tok := range c {
		switch {
		case tok.kind == tokTitle && !titleSeen:
			titleSeen = true
			h.title = tok.title
		case tok.kind == tokDate && !dateSeen:
			dateSeen = true
			h.date = parseDate(tok.line)
		default:
			rest = append(rest, tok)
		}
	}
	return h, rest
}

// parseDate parses "DD/MM/YYYY" or "DD/MM/YYYY HH:MM" in UTC. Impossible
// calendar dates such as 31/02/2025 return nil.
func parseDate(s string) *time.Time {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, minute := 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}
	if hour > 23 || minute > 59 {
		return nil
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return nil
	}
	return &t
}
