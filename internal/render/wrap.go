package render

import "strings"

// Measure returns the drawn width of s in points.
type Measure func(s string) float64

// Wrap splits text into lines no wider than maxWidth. Explicit line breaks are
// kept; within a paragraph words are packed greedily. A single word wider than
// maxWidth gets a line of its own rather than being broken.
func Wrap(text string, maxWidth float64, measure Measure) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if measure(candidate) <= maxWidth {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}
