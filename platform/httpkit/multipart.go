package httpkit

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"capstone_backend/platform/apperr"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// FormFile is an uploaded file read fully into memory.
type FormFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// CheckFormFields rejects multipart requests carrying fields outside allowed.
// It also parses the form, so callers can read values afterwards.
func CheckFormFields(c *gin.Context, allowed ...string) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.Validation("multipart form data is required").WithDetails(err.Error())
	}

	permitted := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		permitted[name] = struct{}{}
	}

	var unknown []string
	for name := range form.Value {
		if _, ok := permitted[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	for name := range form.File {
		if _, ok := permitted[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return apperr.Validation(msgInvalidBody).
			WithDetails(fmt.Sprintf("unknown field(s): %s", strings.Join(unknown, ", ")))
	}
	return nil
}

// FormValue returns the value of a multipart field and whether it was sent.
func FormValue(c *gin.Context, field string) (string, bool) {
	return c.GetPostForm(field)
}

// ReadFormFile reads the named file part. It returns (nil, nil) when the part
// is absent. Files above maxSize are rejected without reading further. The
// content type falls back to sniffing when the client did not declare one.
func ReadFormFile(c *gin.Context, field string, maxSize int64) (*FormFile, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validation("invalid file upload").WithDetails(err.Error())
	}
	if header.Size > maxSize {
		return nil, apperr.Validation("file too large").
			WithDetails(fmt.Sprintf("maximum size is %d bytes", maxSize))
	}

	f, err := header.Open()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to read upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to read upload", err)
	}
	if int64(len(data)) > maxSize {
		return nil, apperr.Validation("file too large").
			WithDetails(fmt.Sprintf("maximum size is %d bytes", maxSize))
	}

	return &FormFile{
		Name:        header.Filename,
		ContentType: contentType(header.Header.Get("Content-Type"), data),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func contentType(declared string, data []byte) string {
	declared = baseMediaType(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return baseMediaType(mimetype.Detect(data).String())
}

func baseMediaType(value string) string {
	value, _, _ = strings.Cut(value, ";")
	return strings.ToLower(strings.TrimSpace(value))
}
