// Package media hosts uploaded images on an S3 compatible bucket.
package media

import (
	"bytes"
	"context"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"io"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"socialite/log"
	"strings"
)

const (
	// Folder prefixes every object key
	Folder = "social-media"
	// MaxImageSize is the largest accepted upload, in bytes
	MaxImageSize = 5 << 20
)

var (
	ErrNotImage     = errors.New("only image files are allowed")
	ErrTooLarge     = errors.New("image exceeds the size limit")
	ErrUnknownImage = errors.New("unknown image")
)

// ObjectStore is the part of the S3 API the host needs
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Image is a hosted image
type Image struct {
	URL      string `json:"imageUrl"`
	PublicID string `json:"publicId"`
}

// Host stores images and hands out their public URLs
type Host struct {
	store     ObjectStore
	bucket    string
	publicURL string
}

func NewHost(store ObjectStore, bucket, publicURL string) *Host {
	return &Host{store: store, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// Upload stores the image read from r. Content is sniffed, the file name only contributes its extension.
func (h *Host) Upload(ctx context.Context, filename string, r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading upload failed")
	}
	if len(data) > MaxImageSize {
		return nil, ErrTooLarge
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	key := path.Join(Folder, uuid.NewString()+extension(filename, contentType))
	_, err = h.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(h.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "storing object %s failed", key)
	}
	log.Logger().WithField("key", key).Debugf("image stored, %d bytes", len(data))
	return &Image{URL: h.publicURL + "/" + key, PublicID: PublicID(key)}, nil
}

// Delete removes a previously uploaded image. S3 deletes are idempotent, so the object
// is looked up first and a missing one yields ErrUnknownImage.
func (h *Host) Delete(ctx context.Context, publicID string) error {
	key, err := Key(publicID)
	if err != nil {
		return err
	}
	_, err = h.store.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return ErrUnknownImage
	}
	if err != nil {
		return errors.Wrapf(err, "looking up object %s failed", key)
	}
	_, err = h.store.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrapf(err, "deleting object %s failed", key)
}

// PublicID flattens an object key into a single path segment
func PublicID(key string) string {
	return strings.ReplaceAll(key, "/", "-")
}

// Key reverses PublicID
func Key(publicID string) (string, error) {
	name := strings.TrimPrefix(publicID, Folder+"-")
	if name == publicID || name == "" || strings.ContainsAny(name, "/\\") {
		return "", ErrUnknownImage
	}
	return Folder + "/" + name, nil
}

func extension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
