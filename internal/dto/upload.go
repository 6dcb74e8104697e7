package dto

import "time"

// UploadResponse describes a stored file.
type UploadResponse struct {
	URL      string `json:"url"`
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// UploadListItem is one entry in a folder listing, newest first.
type UploadListItem struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}
