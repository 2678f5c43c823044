// Package backup stores copies of catalog files in an S3-compatible bucket.
//
// Catalogs are brotli-compressed and stored as booklib/${name}.csv.br
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kjk/booklib/atomicfile"
	"github.com/kjk/booklib/u"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// all backups are stored under this prefix
	Prefix = "booklib/"
	ext    = ".csv.br"
)

type Config struct {
	Access   string
	Secret   string
	Bucket   string
	Endpoint string
	Region   string
	// use http instead of https, for local minio server
	Insecure     bool
	RequestTrace io.Writer
}

// ConfigFromEnv returns config from BOOKLIB_S3_* environment variables
func ConfigFromEnv() *Config {
	return &Config{
		Access:   os.Getenv("BOOKLIB_S3_ACCESS"),
		Secret:   os.Getenv("BOOKLIB_S3_SECRET"),
		Bucket:   os.Getenv("BOOKLIB_S3_BUCKET"),
		Endpoint: os.Getenv("BOOKLIB_S3_ENDPOINT"),
		Region:   os.Getenv("BOOKLIB_S3_REGION"),
		Insecure: os.Getenv("BOOKLIB_S3_INSECURE") == "1",
	}
}

// Validate returns an error naming missing fields
func (c *Config) Validate() error {
	var missing []string
	if c.Access == "" {
		missing = append(missing, "BOOKLIB_S3_ACCESS")
	}
	if c.Secret == "" {
		missing = append(missing, "BOOKLIB_S3_SECRET")
	}
	if c.Bucket == "" {
		missing = append(missing, "BOOKLIB_S3_BUCKET")
	}
	if c.Endpoint == "" {
		missing = append(missing, "BOOKLIB_S3_ENDPOINT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("backup not configured, missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

type Client struct {
	Client *minio.Client
	Bucket string
}

// Object describes a stored backup
type Object struct {
	Name         string
	Key          string
	Size         int64
	LastModified time.Time
}

// New creates a client and checks that the bucket exists
func New(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		return nil, errors.New("must provide config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c := config
	mc, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.Access, c.Secret, ""),
		Region: c.Region,
		Secure: !c.Insecure,
	})
	if err != nil {
		return nil, err
	}
	if c.RequestTrace != nil {
		mc.TraceOn(c.RequestTrace)
	}
	found, err := mc.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("bucket '%s' doesn't exist", c.Bucket)
	}
	return &Client{
		Client: mc,
		Bucket: c.Bucket,
	}, nil
}

// NameFromPath returns default backup name for a catalog file:
// "/data/library.csv" => "library"
func NameFromPath(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// RemotePath returns the key of a backup with a given name
func RemotePath(name string) string {
	return Prefix + name + ext
}

func nameFromKey(key string) string {
	s := strings.TrimPrefix(key, Prefix)
	return strings.TrimSuffix(s, ext)
}

func (c *Client) Exists(ctx context.Context, name string) bool {
	_, err := c.Client.StatObject(ctx, c.Bucket, RemotePath(name), minio.StatObjectOptions{})
	return err == nil
}

// Upload stores brotli-compressed catalog file as backup name
func (c *Client) Upload(ctx context.Context, path string, name string) (minio.UploadInfo, error) {
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
		UserMetadata: map[string]string{
			"source": filepath.Base(path),
		},
	}
	r := bytes.NewReader(d)
	return c.Client.PutObject(ctx, c.Bucket, RemotePath(name), r, int64(len(d)), opts)
}

// Download restores backup name to dstPath. dstPath is only replaced
// once the whole backup was downloaded and decompressed.
func (c *Client) Download(ctx context.Context, name string, dstPath string) error {
	obj, err := c.Client.GetObject(ctx, c.Bucket, RemotePath(name), minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()
	d, err := io.ReadAll(obj)
	if err != nil {
		return err
	}
	d, err = u.BrDecompressData(d)
	if err != nil {
		return fmt.Errorf("backup '%s' is not brotli-compressed: %w", name, err)
	}

	// ensure there's a dir for destination file
	dir := filepath.Dir(dstPath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(dstPath, d)
}

// List returns all backups, most recent first
func (c *Client) List(ctx context.Context) ([]Object, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    Prefix,
		Recursive: true,
	}
	var res []Object
	for oi := range c.Client.ListObjects(ctx, c.Bucket, opts) {
		if oi.Err != nil {
			return nil, oi.Err
		}
		if !strings.HasSuffix(oi.Key, ext) {
			continue
		}
		res = append(res, Object{
			Name:         nameFromKey(oi.Key),
			Key:          oi.Key,
			Size:         oi.Size,
			LastModified: oi.LastModified,
		})
	}
	sortObjects(res)
	return res, nil
}

func sortObjects(objects []Object) {
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})
}

func (c *Client) Remove(ctx context.Context, name string) error {
	return c.Client.RemoveObject(ctx, c.Bucket, RemotePath(name), minio.RemoveObjectOptions{})
}
