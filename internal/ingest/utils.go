package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/bl-generator/constants"
)

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return base != "." && base != ".." && strings.HasPrefix(base, ".")
}

// outputName is BL_<stem>.pdf, with a hash suffix once the plain name is taken.
func outputName(stem, hashHex string, taken map[string]bool) string {
	stem = strings.NewReplacer("/", "_", `\`, "_", " ", "_").Replace(stem)
	name := fmt.Sprintf("BL_%s.%s", stem, constants.PDFExt)
	if taken[name] {
		name = fmt.Sprintf("BL_%s-%s.%s", stem, hashHex[:8], constants.PDFExt)
	}
	taken[name] = true
	return name
}
