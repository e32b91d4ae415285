package controllers

import (
	"net/http"

	"opsdeck/internal/models"
	"opsdeck/internal/services"

	"github.com/gin-gonic/gin"
)

// GetFile reads a file for the editor view and records it as recent
// Query param: path=<absolute or home-relative path>
func GetFile(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter required"})
		return
	}

	content, err := services.ReadFileContent(path)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, content)
}

// SaveFile writes editor content back to disk
func SaveFile(c *gin.Context) {
	var req models.FileSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.SaveFileContent(req.Path, req.Content); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": req.Path, "saved": true})
}

// ListFiles returns a directory listing, directories first
// Query param: path=<directory> (default: home directory)
func ListFiles(c *gin.Context) {
	path := c.Query("path")

	entries, err := services.ListDirectory(path)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":    path,
		"entries": entries,
		"count":   len(entries),
	})
}

// OpenPath hands a file or folder to the OS default handler
func OpenPath(c *gin.Context) {
	var req models.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.OpenWithDefaultHandler(req.Path); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": req.Path, "opened": true})
}

// OpenInEditor launches the configured editor on a file, inside a
// terminal emulator when one is available
func OpenInEditor(c *gin.Context) {
	var req models.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	editor, err := services.OpenInTerminalEditor(req.Path)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": req.Path, "editor": editor, "opened": true})
}

// GetRecentFiles returns the most recently opened files, newest first
func GetRecentFiles(c *gin.Context) {
	recent := services.GetStore().RecentFiles()
	c.JSON(http.StatusOK, gin.H{
		"files": recent,
		"count": len(recent),
	})
}

// GetPreferredEditor returns the configured editor command
func GetPreferredEditor(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"editor": services.GetStore().PreferredEditor()})
}

// SetPreferredEditor updates the configured editor command
func SetPreferredEditor(c *gin.Context) {
	var req struct {
		Editor string `json:"editor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.GetStore().SetPreferredEditor(req.Editor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"editor": req.Editor})
}
