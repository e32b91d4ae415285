package models

import "time"

// FileContent is a file read for the editor view
type FileContent struct {
	Path     string    `json:"path"`
	Content  string    `json:"content"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// FileSaveRequest writes editor content back to disk
type FileSaveRequest struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content"`
}

// FileEntry is one row of a directory listing
type FileEntry struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Mode     string    `json:"mode"`
	IsDir    bool      `json:"is_dir"`
	Modified time.Time `json:"modified"`
}

// OpenRequest delegates a path to the OS default-handler mechanism
type OpenRequest struct {
	Path string `json:"path" binding:"required"`
}
