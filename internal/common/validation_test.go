package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		size     int64
		max      int64
		wantErr  string
	}{
		{"pdf ok", "invoice.pdf", 1024, 0, ""},
		{"upper case ext", "INVOICE.PDF", 10, 100, ""},
		{"text file", "invoice.txt", 10, 0, "Only PDF files are accepted"},
		{"no ext", "invoice", 10, 0, "Only PDF files are accepted"},
		{"empty", "invoice.pdf", 0, 0, "file is empty"},
		{"too big", "invoice.pdf", 101, 100, "exceeds the 100 byte limit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUpload(tc.filename, tc.size, tc.max)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidatorStopsAtFirstFailingRule(t *testing.T) {
	v := NewValidator().Field("file", int64(0), NonEmptySize, MaxSize(10))
	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 1)
	assert.Equal(t, "file is empty", v.ErrorMessage())
}

func TestRequired(t *testing.T) {
	assert.NotNil(t, Required("x", "  "))
	assert.NotNil(t, Required("x", nil))
	assert.Nil(t, Required("x", "value"))
}
