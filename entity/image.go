package entity

import (
	"github.com/google/uuid"
)

// Image is an uploaded photo held in memory for the lifetime of a workflow.
type Image struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

func NewImage(name, contentType string, data []byte) *Image {
	return &Image{
		ID:          uuid.NewString(),
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}
}
