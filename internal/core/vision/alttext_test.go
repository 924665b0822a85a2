package vision

import (
	"context"
	"errors"
	"testing"

	"docindex/internal/parse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAltTexts_SequentialOrder(t *testing.T) {
	refs := []parse.ImageRef{
		{Name: "a.png", Page: 1, Path: "/imgs/a.png"},
		{Name: "b.png", Page: 1, Path: "/imgs/b.png"},
		{Name: "c.png", Page: 2, Path: "/imgs/c.png"},
	}
	var calls []string
	stub := func(ctx context.Context, prompt, imagePath string) (string, error) {
		calls = append(calls, imagePath)
		return "alt for " + imagePath, nil
	}

	alts, err := altTexts(context.Background(), refs, stub)
	require.NoError(t, err)
	require.Len(t, alts, 3)
	assert.Equal(t, []string{"/imgs/a.png", "/imgs/b.png", "/imgs/c.png"}, calls)
	assert.Equal(t, "alt for /imgs/b.png", alts[1])
}

func TestAltTexts_FailedImageLeavesGap(t *testing.T) {
	refs := []parse.ImageRef{
		{Name: "a.png", Path: "/imgs/a.png"},
		{Name: "b.png", Path: "/imgs/b.png"},
		{Name: "c.png", Path: "/imgs/c.png"},
	}
	boom := errors.New("model unavailable")
	stub := func(ctx context.Context, prompt, imagePath string) (string, error) {
		if imagePath == "/imgs/b.png" {
			return "", boom
		}
		return "ok", nil
	}

	alts, err := altTexts(context.Background(), refs, stub)
	require.ErrorIs(t, err, boom)
	require.Len(t, alts, 3)
	assert.Equal(t, "ok", alts[0])
	assert.Empty(t, alts[1])
	assert.Equal(t, "ok", alts[2])
}

func TestAltTexts_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	stub := func(ctx context.Context, prompt, imagePath string) (string, error) {
		called = true
		return "x", nil
	}
	_, err := altTexts(ctx, []parse.ImageRef{{Name: "a.png"}}, stub)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestAltTexts_Empty(t *testing.T) {
	alts, err := AltTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, alts)
}
