package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Archiver writes locked render snapshots and exported documents to the
// object store. Archive failures degrade durability of the copy only; the
// authoritative snapshot lives on the contract row.
type Archiver struct {
	client *minio.Client
	bucket string
}

func NewArchiver(client *minio.Client, bucket string) *Archiver {
	bucket = strings.TrimSpace(bucket)
	if client == nil || bucket == "" {
		return nil
	}
	return &Archiver{client: client, bucket: bucket}
}

// ArchiveLockedRender stores the frozen HTML alongside the exported document
// bytes, keyed by contract id. The document may be nil when the export
// service was unavailable at lock time.
func (a *Archiver) ArchiveLockedRender(ctx context.Context, contractID, html string, document []byte) error {
	if a == nil {
		return nil
	}
	contractID = strings.TrimSpace(contractID)
	if contractID == "" {
		return fmt.Errorf("contract id is required")
	}

	if err := a.put(ctx, contractID+"/contract.html", []byte(html), "text/html; charset=utf-8"); err != nil {
		return err
	}
	if len(document) > 0 {
		if err := a.put(ctx, contractID+"/contract.pdf", document, "application/pdf"); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archiver) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, "contracts/"+key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
