// Package export publishes rendered chart reports outside the process.
package export

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/nholding/kundli-view/internal/audit"
	"github.com/nholding/kundli-view/internal/repository"
)

// PutObjectAPI is the part of the S3 API the exporter needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Exporter uploads text reports to one bucket.
type S3Exporter struct {
	client PutObjectAPI
	bucket string
	log    zerolog.Logger
}

// NewS3Exporter returns an exporter writing to bucket through client.
func NewS3Exporter(client PutObjectAPI, bucket string, log zerolog.Logger) *S3Exporter {
	return &S3Exporter{
		client: client,
		bucket: bucket,
		log:    log.With().Str("component", "export").Logger(),
	}
}

// FromClients builds an exporter on the shared S3 client.
func FromClients(c *repository.S3Client, log zerolog.Logger) *S3Exporter {
	return NewS3Exporter(c.Client, c.BucketName, log)
}

// ReportKey returns the object key of a chart's report.
//
// Example:
//
//	ReportKey("01JABC...") // "charts/01JABC.../report.txt"
func ReportKey(chartID string) string {
	return path.Join("charts", chartID, "report.txt")
}

// Export uploads report and returns its s3:// URI. The object carries the
// chart's audit info touched by exportedBy.
func (e *S3Exporter) Export(ctx context.Context, chartID string, info audit.AuditInfo, exportedBy, report string) (string, error) {
	if chartID == "" {
		return "", errors.New("cannot export a report without a chart ID")
	}

	key := ReportKey(chartID)
	stamped := info.Touch(exportedBy)
	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(report),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Metadata:    auditMetadata(stamped),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report of chart %s: %w", chartID, err)
	}

	uri := fmt.Sprintf("s3://%s/%s", e.bucket, key)
	e.log.Info().
		Str("chart_id", chartID).
		Str("uri", uri).
		Str("exported_by", stamped.UpdatedBy).
		Int("bytes", len(report)).
		Msg("report exported")
	return uri, nil
}

func auditMetadata(a audit.AuditInfo) map[string]string {
	return map[string]string{
		"created-by":  a.CreatedBy,
		"created-at":  a.CreatedAt.Format(time.RFC3339),
		"exported-by": a.UpdatedBy,
		"exported-at": a.UpdatedAt.Format(time.RFC3339),
	}
}
