package ingest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/bl-generator/internal/entity"
	"github.com/joseph-ayodele/bl-generator/internal/pipeline"
)

// fakeGenerator names the invoice after the first line of the file.
type fakeGenerator struct {
	calls atomic.Int32
}

func (f *fakeGenerator) GenerateBL(_ context.Context, pdf []byte) (pipeline.Document, error) {
	f.calls.Add(1)
	if bytes.Contains(pdf, []byte("broken")) {
		return pipeline.Document{}, errors.New("document has no readable text")
	}
	rec := entity.NewInvoiceRecord()
	rec.InvoiceNo = strings.SplitN(string(pdf), "\n", 2)[0]
	return pipeline.Document{Record: rec, PDF: append([]byte("%PDF-1.4 "), pdf...), Embedded: true}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestGenerateDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "INV-001\nfirst")
	writeFile(t, filepath.Join(root, "b.PDF"), "INV-002\nsecond")
	writeFile(t, filepath.Join(root, "copy-of-a.pdf"), "INV-001\nfirst")
	writeFile(t, filepath.Join(root, "nested", "c.pdf"), "EXP/7\nthird")
	writeFile(t, filepath.Join(root, "bad.pdf"), "broken")
	writeFile(t, filepath.Join(root, "empty.pdf"), "")
	writeFile(t, filepath.Join(root, "notes.txt"), "INV-999")
	writeFile(t, filepath.Join(root, ".hidden", "d.pdf"), "INV-004")

	out := filepath.Join(t.TempDir(), "out")
	gen := &fakeGenerator{}
	results, stats, err := NewBatch(gen, out, 2, 1<<20, nil).GenerateDirectory(context.Background(), root, true)
	require.NoError(t, err)

	assert.Equal(t, uint32(6), stats.Matched)
	assert.Equal(t, uint32(4), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Equal(t, uint32(2), stats.Failed)
	assert.Equal(t, int32(4), gen.calls.Load(), "duplicates and invalid files are not generated")

	byName := map[string]Result{}
	for _, r := range results {
		byName[filepath.Base(r.SourcePath)] = r
	}

	a := byName["a.pdf"]
	assert.Equal(t, "INV-001", a.InvoiceNo)
	assert.Equal(t, filepath.Join(out, "BL_INV-001.pdf"), a.OutputPath)
	assert.FileExists(t, a.OutputPath)

	dup := byName["copy-of-a.pdf"]
	assert.True(t, dup.Deduplicated)
	assert.Equal(t, a.OutputPath, dup.OutputPath)

	assert.Equal(t, filepath.Join(out, "BL_EXP_7.pdf"), byName["c.pdf"].OutputPath)
	assert.NotEmpty(t, byName["bad.pdf"].Err)
	assert.Contains(t, byName["empty.pdf"].Err, "empty")
	assert.NotContains(t, byName, "d.pdf")
	assert.NotContains(t, byName, "notes.txt")
}

func TestGenerateDirectoryRequiresRoot(t *testing.T) {
	_, _, err := NewBatch(&fakeGenerator{}, t.TempDir(), 1, 0, nil).GenerateDirectory(context.Background(), " ", false)
	require.Error(t, err)
}

func TestOutputNameAvoidsCollisions(t *testing.T) {
	taken := map[string]bool{}
	assert.Equal(t, "BL_INV-1.pdf", outputName("INV-1", "0123456789abcdef", taken))
	assert.Equal(t, "BL_INV-1-fedcba98.pdf", outputName("INV-1", "fedcba9876543210", taken))
	assert.Equal(t, "BL_A_B.pdf", outputName("A/B", "00000000aa", taken))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/x/.git"))
	assert.False(t, IsHidden("/x/invoice.pdf"))
	assert.False(t, IsHidden("."))
}
