// Package upload forwards submitted images to Cloudinary and enforces the
// file policy checked before any side effect.
package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MaxImageSize is the largest accepted upload, 5 MiB.
const MaxImageSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// CheckImageFile enforces the extension whitelist and size limit. A
// violation is a client error and must reject the submission before any
// persistence or outbound call.
func CheckImageFile(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("file type %q not allowed, use jpg, jpeg, png, gif or webp", ext)
	}
	if size > MaxImageSize {
		return fmt.Errorf("image exceeds the 5 MiB size limit")
	}
	return nil
}

// Uploader pushes image bytes to a hosting service and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
}

// CloudinaryUploader implements Uploader against Cloudinary.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader builds an uploader from a CLOUDINARY_URL-style DSN.
// An empty DSN is a configuration miss, reported as an error so the caller
// can degrade to an imageless post.
func NewCloudinaryUploader(dsn, folder string) (*CloudinaryUploader, error) {
	if dsn == "" {
		return nil, fmt.Errorf("cloudinary not configured")
	}
	cld, err := cloudinary.NewFromURL(dsn)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         u.folder,
		Transformation: "c_limit,w_1600,h_1600,q_auto",
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
