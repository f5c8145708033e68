package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

type memoryStore struct {
	objects map[string][]byte
	err     error
}

func (m *memoryStore) Put(_ context.Context, name string, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[name] = raw
	return "/uploads/" + name, nil
}

func TestUploadStoresImage(t *testing.T) {
	store := &memoryStore{}
	svc, err := NewService(store, 1024)
	require.NoError(t, err)

	res, err := svc.Upload(context.Background(), bytes.NewReader(pngHeader))
	require.NoError(t, err)
	require.Equal(t, "image/png", res.MimeType)
	require.True(t, strings.HasPrefix(res.Path, "/uploads/"))
	require.True(t, strings.HasSuffix(res.Path, ".png"))
	require.Len(t, store.objects, 1)
}

func TestUploadRejectsNonImages(t *testing.T) {
	svc, err := NewService(&memoryStore{}, 1024)
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), strings.NewReader("%PDF-1.7 not an image"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)

	_, err = svc.Upload(context.Background(), strings.NewReader(""))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUploadEnforcesSizeLimit(t *testing.T) {
	svc, err := NewService(&memoryStore{}, 8)
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), bytes.NewReader(pngHeader))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUploadSurfacesStoreFailure(t *testing.T) {
	svc, err := NewService(&memoryStore{err: errors.New("disk full")}, 0)
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), bytes.NewReader(pngHeader))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestAllowedMimeTypes(t *testing.T) {
	require.Equal(t, []string{"image/gif", "image/jpeg", "image/png", "image/webp"}, AllowedMimeTypes())
}
