// Package archive optionally ships a finalized dataset's binary store to
// Tencent COS once phase 4 completes, so a preprocess run's output can
// be fetched by a routectl/query instance running on a different host
// without a shared filesystem.
package archive

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/tencentyun/cos-go-sdk-v5"
)

// Config names the bucket and credentials an Uploader connects with.
type Config struct {
	Bucket    string
	Region    string
	SecretID  string
	SecretKey string
	Domain    string // defaults to myqcloud.com
	Scheme    string // defaults to https
}

// Uploader ships finalized store files to a COS bucket.
type Uploader struct {
	client *cos.Client
	bucket string
}

// New validates cfg and builds an Uploader. It makes no network calls of
// its own.
func New(cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("bucket and region are required for archive storage")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("credentials are required for archive storage")
	}

	domain := cfg.Domain
	if domain == "" {
		domain = "myqcloud.com"
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	bucketURL, err := url.Parse(fmt.Sprintf("%s://%s.cos.%s.%s", scheme, cfg.Bucket, cfg.Region, domain))
	if err != nil {
		return nil, fmt.Errorf("parse bucket url: %w", err)
	}
	serviceURL, err := url.Parse(fmt.Sprintf("%s://cos.%s.%s", scheme, cfg.Region, domain))
	if err != nil {
		return nil, fmt.Errorf("parse service url: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{
		BucketURL:  bucketURL,
		ServiceURL: serviceURL,
	}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &Uploader{client: client, bucket: cfg.Bucket}, nil
}

// key is the object path a dataset's finalized store archives to.
func key(datasetName string) string {
	return fmt.Sprintf("datasets/%s/store.bin", datasetName)
}

// UploadStore uploads the binary store file at localPath, naming the
// object after datasetName.
func (u *Uploader) UploadStore(ctx context.Context, datasetName, localPath string) error {
	if _, err := u.client.Object.PutFromFile(ctx, key(datasetName), localPath, nil); err != nil {
		return fmt.Errorf("upload store for dataset %q: %w", datasetName, err)
	}
	return nil
}

// FetchStore downloads datasetName's archived store to localPath,
// creating its parent directory if needed.
func (u *Uploader) FetchStore(ctx context.Context, datasetName, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create local directory for %q: %w", datasetName, err)
	}
	if _, err := u.client.Object.GetToFile(ctx, key(datasetName), localPath, nil); err != nil {
		return fmt.Errorf("fetch store for dataset %q: %w", datasetName, err)
	}
	return nil
}

// Exists reports whether datasetName has an archived store.
func (u *Uploader) Exists(ctx context.Context, datasetName string) (bool, error) {
	ok, err := u.client.Object.IsExist(ctx, key(datasetName))
	if err != nil {
		return false, fmt.Errorf("check archive existence for %q: %w", datasetName, err)
	}
	return ok, nil
}

// Delete removes datasetName's archived store.
func (u *Uploader) Delete(ctx context.Context, datasetName string) error {
	if _, err := u.client.Object.Delete(ctx, key(datasetName), nil); err != nil {
		return fmt.Errorf("delete archive for %q: %w", datasetName, err)
	}
	return nil
}

