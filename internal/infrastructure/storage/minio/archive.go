package minio

import (
	"bytes"
	"context"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

// archivePrefix is the key prefix of every archived object.
const archivePrefix = "downloads/"

var (
	ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid archive request")
	ErrUploadFailed   = errors.New(errors.ErrCodeStorageError, "upload failed")
)

// ArchiveRequest describes one file to archive.
type ArchiveRequest struct {
	FileName    string
	Data        []byte
	ContentType string
	// Formula is recorded as object metadata.
	Formula string
}

// ArchivedObject is the stored result plus a time-limited link to it.
type ArchivedObject struct {
	Bucket       string
	ObjectKey    string
	ETag         string
	Size         int64
	PresignedURL string
	ExpiresAt    time.Time
}

// Archive stores download payloads.
type Archive interface {
	Store(ctx context.Context, req *ArchiveRequest) (*ArchivedObject, error)
}

type minioArchive struct {
	client *MinIOClient
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

// NewArchive returns an Archive writing to client's bucket.
func NewArchive(client *MinIOClient, log logging.Logger) Archive {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &minioArchive{
		client: client,
		logger: log,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// objectKey lays objects out as downloads/YYYY/MM/DD/<id>/<file>.
func (a *minioArchive) objectKey(fileName string) string {
	return path.Join(archivePrefix, a.now().UTC().Format("2006/01/02"), a.newID(), path.Base(fileName))
}

func (a *minioArchive) Store(ctx context.Context, req *ArchiveRequest) (*ArchivedObject, error) {
	if req == nil || req.FileName == "" || len(req.Data) == 0 {
		return nil, ErrInvalidRequest
	}
	api, err := a.client.api()
	if err != nil {
		return nil, err
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(req.Data[:min(512, len(req.Data))])
	}
	opts := minio.PutObjectOptions{ContentType: contentType}
	if req.Formula != "" {
		opts.UserMetadata = map[string]string{"formula": req.Formula}
	}

	bucket := a.client.Bucket()
	key := a.objectKey(req.FileName)
	info, err := api.PutObject(ctx, bucket, key, bytes.NewReader(req.Data), int64(len(req.Data)), opts)
	if err != nil {
		return nil, ErrUploadFailed.WithCause(err).WithDetail(key)
	}

	expiry := a.client.PresignExpiry()
	u, err := api.PresignedGetObject(ctx, bucket, key, expiry, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to presign archived object")
	}

	a.logger.Debug("archived object", logging.String("bucket", bucket), logging.String("key", key), logging.Int64("size", info.Size))
	return &ArchivedObject{
		Bucket:       bucket,
		ObjectKey:    key,
		ETag:         info.ETag,
		Size:         info.Size,
		PresignedURL: u.String(),
		ExpiresAt:    a.now().Add(expiry),
	}, nil
}

//Personal.AI order the ending
