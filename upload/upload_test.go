package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckImageFile(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		size     int64
		wantErr  string
	}{
		{"jpg ok", "photo.jpg", 1024, ""},
		{"jpeg ok", "photo.jpeg", 1024, ""},
		{"png ok", "photo.png", 1024, ""},
		{"gif ok", "anim.gif", 1024, ""},
		{"webp ok", "photo.webp", 1024, ""},
		{"uppercase extension ok", "PHOTO.JPG", 1024, ""},
		{"executable rejected", "malware.exe", 1024, "not allowed"},
		{"no extension rejected", "photo", 1024, "not allowed"},
		{"svg rejected", "vector.svg", 1024, "not allowed"},
		{"exactly at limit ok", "big.png", MaxImageSize, ""},
		{"over limit rejected", "big.png", MaxImageSize + 1, "size limit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckImageFile(tc.filename, tc.size)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}

func TestNewCloudinaryUploaderUnconfigured(t *testing.T) {
	_, err := NewCloudinaryUploader("", "folder")
	assert.ErrorContains(t, err, "not configured")
}
