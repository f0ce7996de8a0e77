// Package imagecheck validates uploaded photos before they reach a workflow.
package imagecheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"BeautyGenius/entity"
)

const DefaultMaxSizeMB = 5

var (
	ErrEmpty           = errors.New("image is empty")
	ErrTooLarge        = errors.New("image is too large")
	ErrUnsupportedType = errors.New("unsupported image type")
)

// AllowedTypes are the MIME types a photo may have.
var AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

type upload struct {
	ContentType string `validate:"required,oneof=image/jpeg image/jpg image/png image/webp"`
	Size        int64  `validate:"gt=0,ltefield=MaxSize"`
	MaxSize     int64  `validate:"-"`
}

// Checker sniffs the content type of an upload and enforces type and size limits.
type Checker struct {
	validate *validator.Validate
	maxSize  int64
}

func New(maxSizeMB int) *Checker {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	return &Checker{
		validate: validator.New(),
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
	}
}

func (c *Checker) MaxSize() int64 {
	return c.maxSize
}

// Check validates data and wraps it into an image. The content type is
// detected from the bytes; whatever the client declared is ignored.
func (c *Checker) Check(name string, data []byte) (*entity.Image, error) {
	contentType := DetectType(data)
	u := upload{
		ContentType: contentType,
		Size:        int64(len(data)),
		MaxSize:     c.maxSize,
	}
	if err := c.validate.Struct(u); err != nil {
		return nil, translate(err, u)
	}
	return entity.NewImage(name, contentType, data), nil
}

// DetectType returns the bare MIME type of data.
func DetectType(data []byte) string {
	mime, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return strings.TrimSpace(mime)
}

// translate maps validation failures to sentinel errors. Size problems win
// over type problems so an empty or huge file is reported as such.
func translate(err error, u upload) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var typeErr error
	for _, fe := range verrs {
		switch {
		case fe.Field() == "Size" && fe.Tag() == "gt":
			return ErrEmpty
		case fe.Field() == "Size":
			return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, u.Size, u.MaxSize)
		case fe.Field() == "ContentType":
			typeErr = fmt.Errorf("%w: %s", ErrUnsupportedType, u.ContentType)
		}
	}
	if typeErr != nil {
		return typeErr
	}
	return err
}
