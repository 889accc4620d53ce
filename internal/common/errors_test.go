package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid input", InvalidInputError("Only PDF files are accepted"), http.StatusBadRequest},
		{"unreadable", UnreadableDocumentError("no text", errors.New("tesseract: exit 1")), http.StatusUnprocessableEntity},
		{"missing metadata", MissingMetadataError("No embedded JSON metadata found in PDF", nil), http.StatusInternalServerError},
		{"corrupt metadata", CorruptMetadataError("Error reading PDF", errors.New("bad json")), http.StatusInternalServerError},
		{"wrapped unreadable", WrapError(UnreadableDocumentError("x", nil), "pipeline"), http.StatusUnprocessableEntity},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestErrorsKeepCause(t *testing.T) {
	cause := errors.New("exec: pdftoppm not found")
	err := UnreadableDocumentError("document has no readable text", cause)
	assert.ErrorIs(t, err, ErrUnreadableDocument)
	assert.ErrorIs(t, err, cause)
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Only PDF files are accepted", PublicMessage(InvalidInputError("Only PDF files are accepted")))
	assert.Equal(t, "No embedded JSON metadata found in PDF",
		PublicMessage(MissingMetadataError("No embedded JSON metadata found in PDF", nil)))
	assert.Contains(t, PublicMessage(CorruptMetadataError("Error reading PDF", errors.New("unexpected end of JSON input"))),
		"unexpected end of JSON input")
	assert.Equal(t, "internal server error", PublicMessage(errors.New("secret detail")))
	assert.Equal(t, "internal server error", PublicMessage(InternalError("render", errors.New("secret detail"))))
}

func TestWrapErrorNil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))
}
