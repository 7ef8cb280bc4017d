package storage

import (
	"context"
	"path"
	"strings"
	"time"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the S3-compatible operations export uploads need.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	UploadObject(ctx context.Context, key, contentType string, data []byte) error
}

// ExportKey builds the object key of an export: exports/<dataset>/<yyyy-mm-dd>/<dataset>-<hhmmss>.<ext>.
func ExportKey(dataset, ext string, at time.Time) string {
	dataset = strings.Trim(strings.ToLower(strings.TrimSpace(dataset)), "/")
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	at = at.UTC()
	name := dataset + "-" + at.Format("150405") + "." + ext
	return path.Join("exports", dataset, at.Format("2006-01-02"), name)
}
