package httpx

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskmanager/model"
	"taskmanager/services"
)

// IsMultipart reports whether the request carries a multipart form.
func IsMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// FormFiles reads every file sent under field. A request that is not
// multipart, or has no such field, yields no uploads.
func FormFiles(c *gin.Context, field string) ([]services.Upload, error) {
	if !IsMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, formError(err)
	}
	headers := form.File[field]
	if len(headers) > services.MaxImagesPerRequest {
		return nil, &model.ValidationError{Field: field, Message: fmt.Sprintf("at most %d images per request", services.MaxImagesPerRequest)}
	}
	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		u, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

// FormFile reads the single file sent under field, or nil if there is none.
func FormFile(c *gin.Context, field string) (*services.Upload, error) {
	if !IsMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, formError(err)
	}
	u, err := readFile(fh)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func readFile(fh *multipart.FileHeader) (services.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return services.Upload{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return services.Upload{Filename: fh.Filename, Data: data}, nil
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return model.InvalidInput(fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
	}
	return model.InvalidInput("Invalid multipart form")
}
