package parse

import (
	"regexp"
	"strings"
)

// maxBlockLines caps a block capture that runs to the end of the text.
const maxBlockLines = 6

// Capture returns the text after the first occurrence of start up to the
// nearest label in bounds, or the end of text.
func Capture(text string, start Label, bounds *LabelSet) string {
	_, end, ok := start.Find(text, 0)
	if !ok {
		return ""
	}
	stop := bounds.Next(text, end)
	if stop < 0 {
		stop = len(text)
	}
	return limitLines(text[end:stop], maxBlockLines)
}

// CaptureBelow handles column layouts where a caption sits on its own line
// (often beside other captions) and the value follows on the next lines.
// Lines are collected until one that begins with a label; each is cut at the
// first label it contains.
func CaptureBelow(text string, start Label, bounds *LabelSet) string {
	_, end, ok := start.Find(text, 0)
	if !ok {
		return ""
	}
	nl := strings.IndexByte(text[end:], '\n')
	if nl < 0 {
		return ""
	}
	var out []string
	for _, line := range strings.Split(text[end+nl+1:], "\n") {
		if strings.TrimSpace(line) == "" {
			if len(out) > 0 {
				break
			}
			continue
		}
		cut := bounds.Next(line, 0)
		if cut >= 0 && strings.TrimSpace(line[:cut]) == "" {
			break
		}
		if cut >= 0 {
			line = line[:cut]
		}
		out = append(out, line)
		if len(out) == maxBlockLines {
			break
		}
	}
	return strings.Join(out, "\n")
}

// CaptureValue returns the first submatch of re, or "".
func CaptureValue(text string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func limitLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, n)
	for _, ln := range lines {
		if len(kept) == 0 && strings.TrimSpace(ln) == "" {
			continue
		}
		kept = append(kept, ln)
		if len(kept) == n {
			break
		}
	}
	return strings.Join(kept, "\n")
}
