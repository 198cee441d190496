package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/temirov/depaudit/internal/report"
)

const (
	objectLocationSeparatorConstant   = "/"
	invalidObjectLocationMessage      = "object store path must look like s3://bucket/key"
	missingObjectStoreEndpointMessage = "object store endpoint is not configured"
	createObjectStoreClientMessage    = "could not create object store client"
	uploadObjectMessage               = "could not upload report"
)

// ObjectStoreSettings locates and authenticates against an S3-compatible store.
type ObjectStoreSettings struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// ObjectUploader uploads a single object.
type ObjectUploader interface {
	PutObject(executionContext context.Context, bucketName string, objectName string, reader io.Reader, objectSize int64, options minio.PutObjectOptions) (minio.UploadInfo, error)
}

// ObjectStorePersister uploads bundles to an S3-compatible object store.
type ObjectStorePersister struct {
	settings      ObjectStoreSettings
	uploader      ObjectUploader
	uploaderOnce  sync.Once
	uploaderError error
}

// NewObjectStorePersister constructs a persister; the client is created on first use.
func NewObjectStorePersister(settings ObjectStoreSettings) *ObjectStorePersister {
	return &ObjectStorePersister{settings: settings}
}

// WithUploader replaces the client used for uploads.
func (persister *ObjectStorePersister) WithUploader(uploader ObjectUploader) *ObjectStorePersister {
	persister.uploader = uploader
	persister.uploaderOnce.Do(func() {})
	return persister
}

// Persist uploads the serialized bundle to the bucket and key named by path.
func (persister *ObjectStorePersister) Persist(executionContext context.Context, bundle report.Bundle, path string) error {
	bucketName, objectName, locationError := ParseObjectLocation(path)
	if locationError != nil {
		return WriteError{Path: path, Cause: locationError}
	}

	uploader, uploaderError := persister.resolveUploader()
	if uploaderError != nil {
		return WriteError{Path: path, Cause: uploaderError}
	}

	payload, encodeError := json.Marshal(bundle)
	if encodeError != nil {
		return WriteError{Path: path, Cause: errors.Wrap(encodeError, encodeBundleMessageConstant)}
	}

	_, uploadError := uploader.PutObject(executionContext, bucketName, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: jsonContentTypeConstant,
	})
	if uploadError != nil {
		return WriteError{Path: path, Cause: errors.Wrap(uploadError, uploadObjectMessage)}
	}
	return nil
}

func (persister *ObjectStorePersister) resolveUploader() (ObjectUploader, error) {
	persister.uploaderOnce.Do(func() {
		if len(strings.TrimSpace(persister.settings.Endpoint)) == 0 {
			persister.uploaderError = errors.New(missingObjectStoreEndpointMessage)
			return
		}
		client, clientError := minio.New(persister.settings.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(persister.settings.AccessKey, persister.settings.SecretKey, ""),
			Secure: persister.settings.UseSSL,
		})
		if clientError != nil {
			persister.uploaderError = errors.Wrap(clientError, createObjectStoreClientMessage)
			return
		}
		persister.uploader = client
	})
	return persister.uploader, persister.uploaderError
}

// ParseObjectLocation splits s3://bucket/key into its bucket and key.
func ParseObjectLocation(path string) (string, string, error) {
	trimmedPath := strings.TrimSpace(path)
	if !strings.HasPrefix(trimmedPath, objectStoreSchemePrefix) {
		return "", "", errors.New(invalidObjectLocationMessage)
	}
	bucketName, objectName, found := strings.Cut(strings.TrimPrefix(trimmedPath, objectStoreSchemePrefix), objectLocationSeparatorConstant)
	objectName = strings.TrimPrefix(objectName, objectLocationSeparatorConstant)
	if !found || len(bucketName) == 0 || len(objectName) == 0 {
		return "", "", errors.New(invalidObjectLocationMessage)
	}
	return bucketName, objectName, nil
}
