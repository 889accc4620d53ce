package parse

import (
	"regexp"
	"strings"
)

// cleanupStep is one named pass of the value cleanup pipeline.
type cleanupStep struct {
	name string
	fn   func(string) string
}

// cleanupPipeline runs in order over every captured text value.
var cleanupPipeline = []cleanupStep{
	{"strip_noise", stripNoise},
	{"drop_label_lines", dropLabelLines},
	{"cut_leaked_labels", cutLeakedLabels},
	{"collapse_spaces", collapseSpaces},
	{"trim_punctuation", trimPunctuation},
}

// Clean applies the cleanup pipeline. Single-line values keep only their first line.
func Clean(s string, multiline bool) string {
	for _, step := range cleanupPipeline {
		s = step.fn(s)
	}
	if !multiline {
		s = firstLine(s)
	}
	return s
}

var reNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(\s*if\s+other\s+than\s+consignee\s*\)`),
	regexp.MustCompile(`(?i)\bpage\s*\d+\s*(?:of|/)\s*\d+\b`),
	regexp.MustCompile(`(?i)\be\.?\s*&\s*o\.?\s*e\.?`),
	regexp.MustCompile(`(?i)\(?\s*continued\s*\)?\s*$`),
	regexp.MustCompile(`[|_]{2,}`),
}

func stripNoise(s string) string {
	for _, re := range reNoise {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

func dropLabelLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, ln := range lines {
		if boundaries.LabelOnly(ln) {
			continue
		}
		kept = append(kept, ln)
	}
	return strings.Join(kept, "\n")
}

var reLeakedLabel = regexp.MustCompile(`(?i)\b(?:notify\s*party|consignee|exporter|shipper|buyer)\s*:`)

// cutLeakedLabels drops a neighbouring caption that slipped into a value,
// along with everything after it. A caption at the very start is only removed.
func cutLeakedLabels(s string) string {
	for {
		loc := reLeakedLabel.FindStringIndex(s)
		if loc == nil {
			return s
		}
		if strings.TrimSpace(s[:loc[0]]) == "" {
			s = s[loc[1]:]
			continue
		}
		return s[:loc[0]]
	}
}

func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln != "" {
			kept = append(kept, ln)
		}
	}
	return strings.Join(kept, "\n")
}

func trimPunctuation(s string) string {
	s = strings.TrimLeft(s, " \n:;.,-#|")
	return strings.TrimRight(s, " \n:;,-#|")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
