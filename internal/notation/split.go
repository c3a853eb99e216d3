package notation

import "strings"

// chunk is the token stream of one session candidate.
type chunk []token

func (c chunk) blank() bool {
	for _, t := range c {
		if t.line != "" {
			return false
		}
	}
	return true
}

// splitSections segments a document into session chunks. A title line closes the
// current chunk and opens a new one; a separator closes the current chunk only.
// Chunks holding nothing but blank lines are dropped.
func splitSections(doc string) []chunk {
	var chunks []chunk
	var current chunk

	flush := func() {
		if !current.blank() {
			chunks = append(chunks, current)
		}
		current = nil
	}

	for _, raw := range strings.Split(doc, "\n") {
		tok := lex(raw)
		switch tok.kind {
		case tokTitle:
			flush()
			current = append(current, tok)
		case tokSeparator:
			flush()
		default:
			current = append(current, tok)
		}
	}
	flush()

	return chunks
}
