package dto

import (
	"encoding/json"
	"strings"
	"time"

	"taskmanager/model"
)

// WorkForm binds from a multipart form (with "images" files) or from JSON.
type WorkForm struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	TimeRange   *string `json:"timeRange" form:"timeRange"`
	ShareURL    *string `json:"shareUrl" form:"shareUrl" binding:"omitempty,url"`
	// Sent as repeated form values, or as one JSON-encoded array.
	RemoveImagePublicIDs []string `json:"removeImagePublicIds" form:"removeImagePublicIds"`
}

// RemoveIDs flattens RemoveImagePublicIDs. A value that looks like a JSON
// array is decoded; anything else is taken as a single ID.
func (f WorkForm) RemoveIDs() ([]string, error) {
	var out []string
	for _, v := range f.RemoveImagePublicIDs {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.HasPrefix(v, "[") {
			var ids []string
			if err := json.Unmarshal([]byte(v), &ids); err != nil {
				return nil, &model.ValidationError{Field: "removeImagePublicIds", Message: "must be a JSON array of strings"}
			}
			out = append(out, ids...)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (f WorkForm) TitleValue() string       { return deref(f.Title) }
func (f WorkForm) DescriptionValue() string { return deref(f.Description) }
func (f WorkForm) TimeRangeValue() string   { return deref(f.TimeRange) }
func (f WorkForm) ShareURLValue() string    { return deref(f.ShareURL) }

type TaskRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type WorkResponse struct {
	ID          string            `json:"id"`
	Task        TaskRef           `json:"task"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	TimeRange   string            `json:"timeRange"`
	ShareURL    string            `json:"shareUrl"`
	Images      []model.WorkImage `json:"images"`
	CreatedBy   *UserSummary      `json:"createdBy"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewWorkResponse needs the parent task's title; a missing task leaves it
// empty.
func NewWorkResponse(w *model.Work, taskTitle string, users map[string]model.User) WorkResponse {
	images := w.Images
	if images == nil {
		images = []model.WorkImage{}
	}
	return WorkResponse{
		ID:          w.WorkID,
		Task:        TaskRef{ID: w.TaskID, Title: taskTitle},
		Title:       w.Title,
		Description: w.Description,
		TimeRange:   w.TimeRange,
		ShareURL:    w.ShareURL,
		Images:      images,
		CreatedBy:   Summary(users, w.CreatedBy),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
