package parse

import (
	"regexp"
	"strings"
)

// marksKeywords is the allow-list a marks-and-numbers line must hit.
var marksKeywords = regexp.MustCompile(`(?i)\b(?:FCL|LCL|containers?|seals?|marks|packages|pkgs|cartons)\b`)

// reFCLLine finds a container-count line such as "1 X 20' FCL" or "2x40HC FCL".
var reFCLLine = regexp.MustCompile(`(?im)^.*\b\d+\s*[x×*]\s*(?:20|40|45)(?:\s*(?:'|’|ft\b|feet\b|hc\b|hq\b|gp\b))?.*$|^.*\bFCL\b.*$`)

const maxMarksLines = 6

// marksBlock recovers the marks & numbers text. The container-count line and
// the lines after it come first; the "Marks & Nos" caption block is the
// fallback. Only lines carrying a marks keyword are kept.
func marksBlock(text string) string {
	if loc := reFCLLine.FindStringIndex(text); loc != nil {
		if v := filterMarks(marksLinesFrom(text[loc[0]:])); v != "" {
			return v
		}
	}
	return filterMarks(Capture(text, lblMarks, boundaries))
}

// marksLinesFrom takes the anchor line and the following lines until a blank
// line or a caption unrelated to marks.
func marksLinesFrom(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for i, ln := range lines {
		if i > 0 {
			if strings.TrimSpace(ln) == "" {
				break
			}
			if at := boundaries.Next(ln, 0); at >= 0 && strings.TrimSpace(ln[:at]) == "" && !marksKeywords.MatchString(ln) {
				break
			}
		}
		out = append(out, ln)
		if len(out) == maxMarksLines {
			break
		}
	}
	return strings.Join(out, "\n")
}

func filterMarks(s string) string {
	var kept []string
	for _, ln := range strings.Split(collapseSpaces(s), "\n") {
		if marksKeywords.MatchString(ln) {
			kept = append(kept, ln)
		}
	}
	return strings.Join(kept, "\n")
}
