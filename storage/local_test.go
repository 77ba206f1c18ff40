package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/qrmenu/services"
)

func TestSanitizeFilename(t *testing.T) {
	testCases := map[string]struct {
		input    string
		expected string
	}{
		"should keep a plain name":        {input: "dosa.jpg", expected: "dosa.jpg"},
		"should replace spaces":           {input: "masala dosa.jpg", expected: "masala_dosa.jpg"},
		"should drop directories":         {input: "../../etc/passwd", expected: "passwd"},
		"should drop windows directories": {input: `C:\Users\me\chai.png`, expected: "chai.png"},
		"should strip unsafe characters":  {input: "pav<bhaji>?.png", expected: "pavbhaji.png"},
		"should strip leading dots":       {input: ".hidden.png", expected: "hidden.png"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFilename(tc.input))
		})
	}

	assert.Len(t, SanitizeFilename(".."), 8)
}

func TestLocal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store, err := NewLocal(dir)
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	ctx := context.Background()

	ref, err := store.Save(ctx, &services.Image{Filename: "masala dosa.jpg", Body: strings.NewReader("jpeg-bytes")})
	require.NoError(t, err)
	assert.Equal(t, "images/20240102_030405_masala_dosa.jpg", ref)

	data, err := os.ReadFile(filepath.Join(dir, "20240102_030405_masala_dosa.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	again, err := store.Save(ctx, &services.Image{Filename: "masala dosa.jpg", Body: strings.NewReader("other")})
	require.NoError(t, err)
	assert.NotEqual(t, ref, again)

	rc, err := store.Open(ctx, "20240102_030405_masala_dosa.jpg")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "jpeg-bytes", string(body))

	require.NoError(t, store.Delete(ctx, ref))
	require.NoError(t, store.Delete(ctx, ref))

	_, err = store.Open(ctx, "20240102_030405_masala_dosa.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Open(ctx, "../secrets.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}
