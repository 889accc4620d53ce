package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/bl-generator/internal/common"
	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

// uploadFields are the multipart field names an invoice may arrive under.
var uploadFields = []string{"file", "invoice_pdf"}

// multipartSlack covers form boundaries and headers on top of the file itself.
const multipartSlack = 1 << 20

// readUpload validates and reads the uploaded PDF. Nothing is extracted
// until the name, size and body have been checked.
func readUpload(c *gin.Context, maxBytes int64) ([]byte, string, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartSlack)
	}

	header, err := formFile(c)
	if err != nil {
		return nil, "", err
	}
	if err := common.ValidateUpload(header.Filename, header.Size, maxBytes); err != nil {
		return nil, header.Filename, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, header.Filename, common.InvalidInputErrorf("could not read upload: %v", err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, header.Filename, common.InvalidInputErrorf("could not read upload: %v", err)
	}
	if err := common.ValidateUpload(header.Filename, int64(len(data)), maxBytes); err != nil {
		return nil, header.Filename, err
	}
	return data, header.Filename, nil
}

func formFile(c *gin.Context) (*multipart.FileHeader, error) {
	var lastErr error
	for _, field := range uploadFields {
		header, err := c.FormFile(field)
		if err == nil {
			return header, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, common.InvalidInputErrorf("file exceeds the %d byte limit", tooLarge.Limit-multipartSlack)
		}
		lastErr = err
	}
	if errors.Is(lastErr, http.ErrMissingFile) || errors.Is(lastErr, http.ErrNotMultipart) {
		return nil, common.InvalidInputError(`No file uploaded; send the invoice as multipart field "file"`)
	}
	return nil, common.InvalidInputErrorf("malformed upload: %v", lastErr)
}

// attachment sets a download disposition of BL_<invoice_no|Unknown>.<ext>.
func attachment(c *gin.Context, rec entity.InvoiceRecord, ext string) {
	stem := strings.NewReplacer("/", "_", `\`, "_").Replace(rec.FileStem())
	name := fmt.Sprintf("BL_%s.%s", stem, ext)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
}
