package llm

import (
	"context"
	"errors"

	"docindex/config"
	"docindex/pkg/logger"
)

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Embed calls the embeddings endpoint for the given inputs and returns one
// vector per input, in order. Inputs are sent in batches of up to 100.
func Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	var all [][]float32
	for i := 0; i < len(inputs); i += 100 {
		j := i + 100
		if j > len(inputs) {
			j = len(inputs)
		}
		batch := inputs[i:j]
		logger.WithFields(map[string]interface{}{
			"model":       EmbeddingModel(),
			"batch_start": i,
			"batch_end":   j,
			"batch_size":  len(batch),
		}).Info("embeddings: batch start")

		vectors, err := embedBatch(ctx, batch)
		if err != nil {
			logger.WithFields(map[string]interface{}{
				"model":       EmbeddingModel(),
				"batch_start": i,
				"batch_end":   j,
				"error":       err,
			}).Errorf("embeddings: batch failed")
			return nil, err
		}
		logger.WithFields(map[string]interface{}{
			"batch_start": i,
			"batch_end":   j,
			"vectors":     len(vectors),
		}).Info("embeddings: batch done")
		all = append(all, vectors...)
	}
	return all, nil
}

func embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	client, err := NewClient()
	if err != nil {
		return nil, err
	}
	req := embeddingRequest{Model: EmbeddingModel(), Input: batch}
	var out embeddingResponse
	if err := client.Post(ctx, "/embeddings", req, &out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, errors.New(out.Error.Message)
	}
	if len(out.Data) != len(batch) {
		logger.Errorf("%v: embeddings count mismatch: got %d want %d", config.ModuleAzure, len(out.Data), len(batch))
		return nil, errors.New("embedding count mismatch")
	}
	vectors := make([][]float32, len(out.Data))
	for i := range out.Data {
		src := out.Data[i].Embedding
		vec := make([]float32, len(src))
		for k := range src {
			vec[k] = float32(src[k])
		}
		vectors[i] = vec
	}
	return vectors, nil
}
