// Package reply turns the free-form text of a model reply into structured
// records. Repair happens in Normalize, a chain of narrow rules applied before
// decoding; decoding and shape validation happen in the Parse functions.
package reply

import "strings"

// rule is a single text repair. Every rule must leave text that it already
// repaired unchanged so that Normalize stays idempotent.
type rule struct {
	name  string
	apply func(string) string
}

// rules are applied in order
var rules = []rule{
	{name: "trim_space", apply: strings.TrimSpace},
	{name: "strip_code_fence", apply: stripCodeFence},
	{name: "trim_prose", apply: trimProse},
	{name: "collapse_object_separators", apply: collapseObjectSeparators},
	{name: "wrap_bare_objects", apply: wrapBareObjects},
}

// Normalize applies all repair rules to a model reply
func Normalize(text string) string {
	for _, r := range rules {
		text = r.apply(text)
	}
	return text
}

// stripCodeFence extracts the body of a markdown code fence such as
// "```json\n[...]\n```". Only a fence opened before the JSON itself counts;
// backticks inside string values are content.
func stripCodeFence(text string) string {
	const fence = "```"

	start := strings.Index(text, fence)
	if start < 0 {
		return text
	}
	if first := strings.IndexAny(text, "[{"); first >= 0 && first < start {
		return text
	}
	body := text[start+len(fence):]
	// drop the info string ("json") up to the end of the fence line
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		return text
	}
	if end := strings.LastIndex(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// trimProse removes chatter before the first and after the last JSON bracket,
// e.g. "Here are the test cases: [...] Let me know"
func trimProse(text string) string {
	start := strings.IndexAny(text, "[{")
	end := strings.LastIndexAny(text, "]}")
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}

// collapseObjectSeparators rewrites object boundaries outside string literals
// so that "}" followed by optional whitespace, an optional comma and more
// whitespace before "{" becomes exactly "},{".
func collapseObjectSeparators(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		b.WriteByte(c)

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '}':
			j := skipSpace(text, i+1)
			if j < len(text) && text[j] == ',' {
				j = skipSpace(text, j+1)
			}
			if j < len(text) && text[j] == '{' {
				b.WriteByte(',')
				i = j - 1
			}
		}
	}
	return b.String()
}

// wrapBareObjects encloses top-level comma-joined objects in an array. Text
// that is a single object or already an array is left alone.
func wrapBareObjects(text string) string {
	if !strings.HasPrefix(text, "{") {
		return text
	}
	end := matchingClose(text, 0)
	if end < 0 || end == len(text)-1 {
		return text
	}
	if next := skipSpace(text, end+1); next >= len(text) || text[next] != ',' {
		return text
	}
	return "[" + text + "]"
}

// matchingClose returns the index of the bracket closing the one at start,
// or -1 when it is never closed
func matchingClose(text string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}
