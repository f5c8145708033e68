package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/cafepos-backend/pkg/config"
)

func TestPutStoresObjectUnderPublicPrefix(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	client, err := NewClient(context.Background(), config.UploadsConfig{Dir: dir, PublicPrefix: "uploads/"}, nil)
	require.NoError(t, err)

	public, err := client.Put(context.Background(), "latte.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "/uploads/latte.png", public)

	raw, err := os.ReadFile(filepath.Join(dir, "latte.png"))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(raw))

	require.NoError(t, client.Ping(context.Background()))
	require.NoError(t, client.Delete(context.Background(), "latte.png"))
	require.NoError(t, client.Delete(context.Background(), "latte.png"))
}

func TestPutRejectsPathTraversal(t *testing.T) {
	client, err := NewClient(context.Background(), config.UploadsConfig{Dir: t.TempDir(), PublicPrefix: "/uploads"}, nil)
	require.NoError(t, err)

	for _, name := range []string{"", "../escape.png", "nested/file.png", ".hidden"} {
		_, err := client.Put(context.Background(), name, strings.NewReader("x"))
		require.Error(t, err, name)
	}
}

func TestNewClientRequiresDir(t *testing.T) {
	_, err := NewClient(context.Background(), config.UploadsConfig{}, nil)
	require.Error(t, err)
}
