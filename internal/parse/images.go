package parse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"docindex/pkg/logger"
)

// ExtractImages downloads every image referenced by the parse result into
// outputDir and returns one local descriptor per image. The directory is
// created if needed; file names are the service-assigned image names.
func (c *Client) ExtractImages(ctx context.Context, result *Result, outputDir string) ([]ImageRef, error) {
	if result == nil || result.JobID == "" {
		return nil, fmt.Errorf("no parse result")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var refs []ImageRef
	for _, page := range result.Pages {
		for _, img := range page.Images {
			// Image names come from the service; never let them choose a
			// path outside outputDir.
			if img.Name == "" || img.Name == "." || img.Name == ".." ||
				img.Name != filepath.Base(img.Name) || strings.ContainsAny(img.Name, `/\`) {
				return nil, fmt.Errorf("unsafe image name %q in parse result", img.Name)
			}
			localPath := filepath.Join(outputDir, img.Name)
			if err := c.downloadImage(ctx, result.JobID, img.Name, localPath); err != nil {
				return nil, fmt.Errorf("download image %s: %w", img.Name, err)
			}
			refs = append(refs, ImageRef{
				Name: img.Name,
				Page: int32(page.Page),
				Path: localPath,
			})
		}
	}
	logger.WithFields(map[string]interface{}{
		"job_id": result.JobID,
		"images": len(refs),
		"dir":    outputDir,
	}).Info("parse: images extracted")
	return refs, nil
}

func (c *Client) downloadImage(ctx context.Context, jobID, name, localPath string) error {
	url := fmt.Sprintf("%s/api/parsing/job/%s/result/image/%s", c.baseURL, jobID, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("parse service: %s", resp.Status)
	}

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(localPath)
		return err
	}
	return f.Close()
}
