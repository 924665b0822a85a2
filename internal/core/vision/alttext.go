package vision

import (
	"context"

	"docindex/config"
	"docindex/internal/core/llm"
	"docindex/internal/parse"
	"docindex/pkg/logger"
)

// DefaultPrompt asks the model for index-ready alt text.
const DefaultPrompt = "Describe the image in detail so the description can stand in for the image in a searchable text index. Mention any visible text, labels, chart axes and figures."

// completeFn matches llm.CompleteVision; swappable in tests.
type completeFn func(ctx context.Context, prompt, imagePath string) (string, error)

// AltTexts produces one alt text per extracted image, calling the
// multimodal model once per image, strictly in sequence. The returned slice
// is parallel to refs; an image whose completion failed gets an empty
// string and the first error is returned alongside the partial results.
func AltTexts(ctx context.Context, refs []parse.ImageRef) ([]string, error) {
	return altTexts(ctx, refs, llm.CompleteVision)
}

func altTexts(ctx context.Context, refs []parse.ImageRef, complete completeFn) ([]string, error) {
	alts := make([]string, len(refs))
	var firstErr error
	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			break
		}
		text, err := complete(ctx, DefaultPrompt, ref.Path)
		if err != nil {
			logger.Error(err, "%v: alt text failed for %s (page %d)", config.ModuleVision, ref.Name, ref.Page)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.WithModule(config.ModuleVision).WithFields(map[string]interface{}{
			"image": ref.Name,
			"page":  ref.Page,
			"chars": len(text),
		}).Info("alt text generated")
		alts[i] = text
	}
	return alts, firstErr
}
