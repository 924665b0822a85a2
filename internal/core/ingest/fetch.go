package ingest

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	s3client "docindex/pkg/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FetchToLocalTemp copies a registered file (local path or s3:// URL) to a
// temporary path and returns a cleanup function. Parsers need a stable local
// file they can reopen.
func FetchToLocalTemp(ctx context.Context, filePath string) (string, func(), error) {
	if strings.HasPrefix(filePath, "s3://") {
		return fetchFromS3(ctx, filePath)
	}

	abs := filePath
	if !filepath.IsAbs(abs) {
		cwd, _ := os.Getwd()
		abs = filepath.Join(cwd, filePath)
	}
	src, err := os.Open(abs)
	if err != nil {
		return "", func() {}, err
	}
	defer src.Close()
	tmp, err := os.CreateTemp("", "ingest-*"+filepath.Ext(filePath))
	if err != nil {
		return "", func() {}, err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", func() {}, err
	}
	tmp.Close()
	return tmp.Name(), func() { _ = os.Remove(tmp.Name()) }, nil
}

func fetchFromS3(ctx context.Context, s3URL string) (string, func(), error) {
	u, err := url.Parse(s3URL)
	if err != nil {
		return "", func() {}, err
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	cli, err := s3client.GetClient()
	if err != nil {
		return "", func() {}, err
	}
	tmp, err := os.CreateTemp("", "ingest-*"+filepath.Ext(key))
	if err != nil {
		return "", func() {}, err
	}
	out, err := cli.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", func() {}, err
	}
	defer out.Body.Close()
	if _, err := io.Copy(tmp, out.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", func() {}, err
	}
	tmp.Close()
	return tmp.Name(), func() { _ = os.Remove(tmp.Name()) }, nil
}
