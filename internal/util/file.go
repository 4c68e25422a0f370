package util

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SaveUploadedFile saves an uploaded multipart file to a temporary directory
// and returns the path to the saved file. The caller is responsible for
// removing it once the media host upload finishes.
func SaveUploadedFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tempDir := filepath.Join(os.TempDir(), "cliptube_uploads")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", err
	}

	tempFilePath := filepath.Join(tempDir, uuid.New().String()+filepath.Ext(file.Filename))

	dst, err := os.Create(tempFilePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(tempFilePath)
		return "", err
	}

	return tempFilePath, nil
}
