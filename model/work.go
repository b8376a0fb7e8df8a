package model

import "time"

// WorkImage is an image held by the image host. PublicID is the host's key
// and is what removal and cascade deletion address.
type WorkImage struct {
	URL      string `firestore:"url" json:"url"`
	PublicID string `firestore:"publicid" json:"publicId"`
}

type Work struct {
	WorkID      string      `firestore:"workid,omitempty"`
	TaskID      string      `firestore:"taskid,omitempty"`
	Title       string      `firestore:"title,omitempty"`
	Description string      `firestore:"description,omitempty"`
	TimeRange   string      `firestore:"timerange,omitempty"`
	ShareURL    string      `firestore:"shareurl,omitempty"`
	Images      []WorkImage `firestore:"images"`
	CreatedBy   string      `firestore:"createdby,omitempty"`
	CreatedAt   time.Time   `firestore:"createdat,omitempty"`
	UpdatedAt   time.Time   `firestore:"updatedat,omitempty"`
}

func (w *Work) OwnerID() string { return w.CreatedBy }

// RemoveImages drops every image whose PublicID is in ids. IDs that match
// nothing are ignored.
func (w *Work) RemoveImages(ids []string) {
	drop := NewIDSet(ids...)
	kept := make([]WorkImage, 0, len(w.Images))
	for _, img := range w.Images {
		if !drop.Contains(img.PublicID) {
			kept = append(kept, img)
		}
	}
	w.Images = kept
}
