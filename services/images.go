package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"taskmanager/model"
)

// MaxImagesPerRequest bounds the files accepted by one create or update.
const MaxImagesPerRequest = 10

// Upload is an image received from a client, not yet on the image host.
type Upload struct {
	Filename string
	Data     []byte
}

// contentType sniffs the payload; anything that is not an image is rejected.
func (u Upload) contentType() (string, error) {
	if len(u.Data) == 0 {
		return "", &model.ValidationError{Field: "images", Message: fmt.Sprintf("%q is empty", u.Filename)}
	}
	mt := mimetype.Detect(u.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", &model.ValidationError{Field: "images", Message: fmt.Sprintf("%q is not an image (%s)", u.Filename, mt.String())}
	}
	return mt.String(), nil
}

func checkUploads(uploads []Upload) error {
	if len(uploads) > MaxImagesPerRequest {
		return &model.ValidationError{Field: "images", Message: fmt.Sprintf("at most %d images per request", MaxImagesPerRequest)}
	}
	for _, u := range uploads {
		if _, err := u.contentType(); err != nil {
			return err
		}
	}
	return nil
}

// uploadAll sends uploads to the host one at a time, in order. On failure
// the images already uploaded stay on the host.
func uploadAll(ctx context.Context, host ImageHost, uploads []Upload) ([]model.WorkImage, error) {
	out := make([]model.WorkImage, 0, len(uploads))
	for _, u := range uploads {
		ct, err := u.contentType()
		if err != nil {
			return nil, err
		}
		img, err := host.Upload(ctx, u.Data, ct)
		if err != nil {
			return nil, &model.ExternalError{Op: "upload", Err: err}
		}
		out = append(out, img)
	}
	return out, nil
}

// destroyAll deletes images from the host one at a time and stops at the
// first failure.
func destroyAll(ctx context.Context, host ImageHost, images []model.WorkImage) error {
	for _, img := range images {
		if err := host.Delete(ctx, img.PublicID); err != nil {
			return &model.ExternalError{Op: "delete " + img.PublicID, Err: err}
		}
	}
	return nil
}
