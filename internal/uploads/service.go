package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Result is the stored upload.
type Result struct {
	Path     string `json:"path"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

type objectStore interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
}

// Service accepts product images.
type Service interface {
	Upload(ctx context.Context, r io.Reader) (*Result, error)
}

type service struct {
	store    objectStore
	maxBytes int64
}

// NewService builds the upload service. maxBytes <= 0 disables the size check.
func NewService(store objectStore, maxBytes int64) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &service{store: store, maxBytes: maxBytes}, nil
}

// Upload sniffs the content, rejects anything that is not an allowed image
// and stores it under a generated name.
func (s *service) Upload(ctx context.Context, r io.Reader) (*Result, error) {
	if r == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	reader := r
	if s.maxBytes > 0 {
		reader = io.LimitReader(r, s.maxBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if len(body) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if s.maxBytes > 0 && int64(len(body)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file too large").
			WithDetails(map[string]any{"maxBytes": s.maxBytes})
	}

	detected := mimetype.Detect(body)
	mimeType := strings.ToLower(detected.String())
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only png, jpeg, webp or gif images are allowed").
			WithDetails(map[string]any{"mimeType": mimeType, "allowed": AllowedMimeTypes()})
	}

	path, err := s.store.Put(ctx, uuid.NewString()+ext, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store upload")
	}
	return &Result{Path: path, MimeType: mimeType, Size: int64(len(body))}, nil
}

// AllowedMimeTypes lists the accepted content types.
func AllowedMimeTypes() []string {
	out := make([]string, 0, len(allowedImageTypes))
	for mimeType := range allowedImageTypes {
		out = append(out, mimeType)
	}
	sort.Strings(out)
	return out
}
