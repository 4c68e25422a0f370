package storage

import "context"

// UploadResult is what the media host reports for a stored file.
type UploadResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// Uploader stores media files on the external media host and returns their
// public URLs. Controllers treat an upload failure as a 400.
type Uploader interface {
	// Upload reads the file at localPath, stores it under the given
	// category folder for the user, and removes the local file on success.
	Upload(ctx context.Context, localPath, category, userID string) (*UploadResult, error)
}
