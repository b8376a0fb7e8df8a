package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"taskmanager/model"
)

const imageFolder = "task-manager/works"

// ImageHost stores images as objects in a Firebase Storage bucket. Each
// object carries a download token so its URL works without signed URLs.
type ImageHost struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewImageHost(bucket *storage.BucketHandle, bucketName string) *ImageHost {
	return &ImageHost{bucket: bucket, bucketName: bucketName}
}

func (h *ImageHost) Upload(ctx context.Context, data []byte, contentType string) (model.WorkImage, error) {
	name := imageFolder + "/" + uuid.New().String()
	token := uuid.New().String()

	w := h.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return model.WorkImage{}, fmt.Errorf("write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return model.WorkImage{}, fmt.Errorf("finalize %s: %w", name, err)
	}

	return model.WorkImage{
		URL: fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
			h.bucketName, url.PathEscape(name), token),
		PublicID: name,
	}, nil
}

// Delete treats an object that is already gone as deleted.
func (h *ImageHost) Delete(ctx context.Context, publicID string) error {
	err := h.bucket.Object(publicID).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}
