package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const actorKeyword = "actor"

var (
	tagRe              = regexp.MustCompile(`(?:^|[^\w.])@([A-Za-z_]\w*)`)
	identRe            = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	annotationPrefixRe = regexp.MustCompile(`^(?:@[A-Za-z_]\w*(?:\([^)]*\))?\s*)+`)
	connectionRe       = regexp.MustCompile(`\bsend\s*\(?\s*([A-Za-z_]\w*)|([A-Za-z_]\w*)\s*<-`)
	dimensionRe        = regexp.MustCompile(`\b(height|thickness|width|depth|length)\s*[:=]\s*([0-9]+(?:\.[0-9]+)?)\s*(mm|cm|m)?\b`)
)

// Extract scans source for actor declarations and returns them in
// declaration order. Declarations that cannot be parsed are skipped and
// reported as anomalies; extraction itself never fails.
func Extract(source string) *Result {
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	res := &Result{}

	headerStart := -1
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(stripLineComment(lines[i]))
		if trimmed == "" {
			// Blank and comment lines keep a pending annotation header.
			continue
		}

		rest := trimmed
		if loc := annotationPrefixRe.FindStringIndex(rest); loc != nil {
			rest = strings.TrimSpace(rest[loc[1]:])
		}

		isDecl, name, _ := parseDeclaration(rest)
		if !isDecl {
			if rest == "" {
				if headerStart < 0 {
					headerStart = i
				}
			} else {
				headerStart = -1
			}
			continue
		}

		start := i
		if headerStart >= 0 {
			start = headerStart
		}
		headerStart = -1

		if !identRe.MatchString(name) {
			res.Anomalies = append(res.Anomalies, Anomaly{
				Line:   i + 1,
				Reason: "missing or invalid actor name",
				Text:   trimmed,
			})
			continue
		}

		end := i
		var body, tail string
		if openLine, col, ok := findBodyOpen(lines, i); ok {
			closeLine, closeCol, closed := findBodyEnd(lines, openLine, col)
			if !closed {
				res.Anomalies = append(res.Anomalies, Anomaly{
					Line:   i + 1,
					Reason: fmt.Sprintf("unterminated body for actor %q", name),
					Text:   trimmed,
				})
				continue
			}
			end = closeLine
			body = bodyText(lines, openLine, col, closeLine, closeCol)
			// Text after the closing brace belongs to whatever follows.
			tail = lines[closeLine][closeCol+1:]
			lines[closeLine] = lines[closeLine][:closeCol+1]
		}

		res.Actors = append(res.Actors, buildActor(name, i+1, start+1, end+1, strings.Join(lines[start:end+1], "\n"), body))
		i = end
		if strings.TrimSpace(stripLineComment(tail)) != "" {
			// Rescan the closing line with the finished actor blanked out.
			lines[end] = strings.Repeat(" ", len(lines[end])) + tail
			i = end - 1
		}
	}

	return res
}

func buildActor(name string, line, start, end int, fragment, body string) Actor {
	a := NewActor(name)
	a.line = line
	a.start, a.end = start, end
	a.fragment = fragment

	for _, m := range tagRe.FindAllStringSubmatch(fragment, -1) {
		a.annotations[m[1]] = struct{}{}
	}

	seen := make(map[string]bool)
	for _, m := range connectionRe.FindAllStringSubmatch(body, -1) {
		target := m[1]
		if target == "" {
			target = m[2]
		}
		if seen[target] {
			continue
		}
		seen[target] = true
		a.connections = append(a.connections, Connection{From: name, To: target})
	}

	for _, m := range dimensionRe.FindAllStringSubmatch(body, -1) {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		a.dimensions[m[1]] = toMeters(v, m[3])
	}

	return a
}

// parseDeclaration reports whether rest starts with the actor keyword and
// splits off the declared name. name may be empty or invalid; the caller
// decides whether that is an anomaly.
func parseDeclaration(rest string) (bool, string, string) {
	if !strings.HasPrefix(rest, actorKeyword) {
		return false, "", ""
	}
	r := rest[len(actorKeyword):]
	if r != "" && r[0] != ' ' && r[0] != '\t' && r[0] != '{' {
		return false, "", ""
	}
	r = strings.TrimLeft(r, " \t")
	n := strings.IndexAny(r, " \t{(")
	if n < 0 {
		return true, r, ""
	}
	return true, r[:n], r[n:]
}

// findBodyOpen locates the '{' opening an actor body, either on the
// declaration line or on the next non-blank line.
func findBodyOpen(lines []string, decl int) (int, int, bool) {
	if col := strings.Index(stripLineComment(lines[decl]), "{"); col >= 0 {
		return decl, col, true
	}
	for k := decl + 1; k < len(lines); k++ {
		line := stripLineComment(lines[k])
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "{") {
			return k, strings.Index(line, "{"), true
		}
		break
	}
	return 0, 0, false
}

// findBodyEnd walks forward from the opening brace and returns the line
// and column of the matching close. Braces inside string literals and line
// comments do not count.
func findBodyEnd(lines []string, from, col int) (int, int, bool) {
	depth := 0
	for i := from; i < len(lines); i++ {
		line := lines[i]
		j := 0
		if i == from {
			j = col
		}
		inString := false
		for ; j < len(line); j++ {
			c := line[j]
			switch {
			case inString:
				if c == '\\' {
					j++
				} else if c == '"' {
					inString = false
				}
			case c == '"':
				inString = true
			case c == '/' && j+1 < len(line) && line[j+1] == '/':
				j = len(line)
			case c == '{':
				depth++
			case c == '}':
				depth--
				if depth == 0 {
					return i, j, true
				}
			}
		}
	}
	return 0, 0, false
}

// bodyText returns the text between the body braces with comments removed
// and string literals blanked, so quoted messages never read as sends or
// dimensions.
func bodyText(lines []string, openLine, openCol, closeLine, closeCol int) string {
	parts := make([]string, 0, closeLine-openLine+1)
	for k := openLine; k <= closeLine; k++ {
		line := lines[k]
		if k == closeLine {
			line = line[:closeCol+1]
		}
		if k == openLine {
			line = strings.Repeat(" ", openCol) + line[openCol:]
		}
		parts = append(parts, codeOnly(line))
	}
	return strings.Join(parts, "\n")
}

// stripLineComment removes a trailing `//` comment, leaving string
// literals untouched.
func stripLineComment(line string) string {
	code, _ := scanLine(line)
	return line[:code]
}

// codeOnly removes a trailing comment and replaces every string literal,
// quotes included, with spaces.
func codeOnly(line string) string {
	code, strs := scanLine(line)
	b := []byte(line[:code])
	for _, span := range strs {
		for j := span[0]; j < span[1] && j < len(b); j++ {
			b[j] = ' '
		}
	}
	return string(b)
}

// scanLine returns where a `//` comment starts (len(line) if none) and the
// [start, end) spans of string literals before it.
func scanLine(line string) (int, [][2]int) {
	var strs [][2]int
	start := -1
	for j := 0; j < len(line); j++ {
		c := line[j]
		switch {
		case start >= 0:
			if c == '\\' {
				j++
			} else if c == '"' {
				strs = append(strs, [2]int{start, j + 1})
				start = -1
			}
		case c == '"':
			start = j
		case c == '/' && j+1 < len(line) && line[j+1] == '/':
			return j, strs
		}
	}
	if start >= 0 {
		strs = append(strs, [2]int{start, len(line)})
	}
	return len(line), strs
}

func toMeters(v float64, unit string) float64 {
	switch unit {
	case "mm":
		return v / 1000
	case "cm":
		return v / 100
	default:
		return v
	}
}
