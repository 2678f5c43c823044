package backup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kjk/booklib/u"
	"github.com/minio/minio-go/v7"
)

// LogRemotePath returns the key for a daily log file:
// events-2025-10-06.txt => booklib/logs/2025/10-06/events-2025-10-06.txt.br
// Returns "" if path is not a daily log file.
func LogRemotePath(path string) string {
	name := filepath.Base(path)
	base, ok := strings.CutSuffix(name, ".txt")
	if !ok {
		return ""
	}
	// base: events-2025-10-06
	parts := strings.Split(base, "-")
	n := len(parts)
	if n < 4 {
		return ""
	}
	year, month, day := parts[n-3], parts[n-2], parts[n-1]
	if len(year) != 4 || len(month) != 2 || len(day) != 2 {
		return ""
	}
	return fmt.Sprintf("%slogs/%s/%s-%s/%s.br", Prefix, year, month, day, name)
}

// UploadLog uploads brotli-compressed daily log file
func (c *Client) UploadLog(ctx context.Context, path string) (minio.UploadInfo, error) {
	remotePath := LogRemotePath(path)
	if remotePath == "" {
		return minio.UploadInfo{}, fmt.Errorf("'%s' is not a daily log file", path)
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	d, err = u.BrCompressDataBest(d)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	opts := minio.PutObjectOptions{
		ContentType: "application/x-brotli",
	}
	return c.Client.PutObject(ctx, c.Bucket, remotePath, bytes.NewReader(d), int64(len(d)), opts)
}
