package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"taskmanager/model"
)

var ErrInjected = errors.New("injected image host failure")

// ImageHost records uploaded objects in memory. FailDelete and FailUpload
// make the next matching call fail, for exercising abort paths.
type ImageHost struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	failDelete map[string]bool
	failUpload int // fail the upload with this 1-based ordinal; 0 never
	uploads    int
}

func NewImageHost() *ImageHost {
	return &ImageHost{objects: map[string][]byte{}, failDelete: map[string]bool{}}
}

func (h *ImageHost) Upload(_ context.Context, data []byte, contentType string) (model.WorkImage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.uploads++
	if h.failUpload != 0 && h.uploads == h.failUpload {
		return model.WorkImage{}, ErrInjected
	}
	id := "works/" + uuid.New().String()
	h.objects[id] = append([]byte{}, data...)
	return model.WorkImage{
		URL:      fmt.Sprintf("memory://%s?type=%s", id, contentType),
		PublicID: id,
	}, nil
}

// Delete of an unknown object succeeds, as it does on the real host.
func (h *ImageHost) Delete(_ context.Context, publicID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failDelete[publicID] {
		return ErrInjected
	}
	delete(h.objects, publicID)
	h.deleted = append(h.deleted, publicID)
	return nil
}

func (h *ImageHost) FailDelete(publicID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failDelete[publicID] = true
}

// FailUploadAt makes the nth upload from now fail.
func (h *ImageHost) FailUploadAt(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failUpload = h.uploads + n
}

func (h *ImageHost) Has(publicID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.objects[publicID]
	return ok
}

func (h *ImageHost) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.objects)
}

// Deleted returns every publicID a Delete call was made for, in order.
func (h *ImageHost) Deleted() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string{}, h.deleted...)
}
