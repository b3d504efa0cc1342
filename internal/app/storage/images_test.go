package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImageSize(t *testing.T) {
	assert.Nil(t, ValidateImageSize(1))
	assert.Nil(t, ValidateImageSize(MaxImageSize))

	require.NotNil(t, ValidateImageSize(0))
	require.NotNil(t, ValidateImageSize(-5))

	tooLarge := ValidateImageSize(MaxImageSize + 1)
	require.NotNil(t, tooLarge)
	assert.Equal(t, 4101, tooLarge.Code)
}

func TestValidateImageType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		wantOK   bool
	}{
		{name: "jpeg", fileName: "photo.jpg", mimeType: "image/jpeg", wantOK: true},
		{name: "jpeg alternate extension", fileName: "photo.jpeg", mimeType: "image/jpeg", wantOK: true},
		{name: "png uppercase mime", fileName: "photo.png", mimeType: "IMAGE/PNG", wantOK: true},
		{name: "webp", fileName: "photo.webp", mimeType: "image/webp", wantOK: true},
		{name: "disallowed mime", fileName: "doc.pdf", mimeType: "application/pdf"},
		{name: "mismatched extension", fileName: "photo.png", mimeType: "image/jpeg"},
		{name: "no extension", fileName: "photo", mimeType: "image/png"},
		{name: "svg rejected", fileName: "icon.svg", mimeType: "image/svg+xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customErr := ValidateImageType(tt.fileName, tt.mimeType)

			if tt.wantOK {
				assert.Nil(t, customErr)
			} else {
				require.NotNil(t, customErr)
				assert.Equal(t, 4102, customErr.Code)
			}
		})
	}
}
