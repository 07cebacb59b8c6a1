package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"contractpro/model"
	"contractpro/pkg/logger"
	"contractpro/service"

	"github.com/gin-gonic/gin"
)

// UploadHandler drives upload sessions over HTTP: intake stages file
// content into the blob store, then the session simulates the transfer
// pipeline to a terminal per-file outcome.
type UploadHandler struct {
	sessions *service.SessionManager
	blobs    service.BlobStore
}

func NewUploadHandler(sessions *service.SessionManager, blobs service.BlobStore) *UploadHandler {
	return &UploadHandler{sessions: sessions, blobs: blobs}
}

// CreateSession opens a new upload session
func (h *UploadHandler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	logger.Info(c.Request.Context(), "upload session created", "session_id", s.ID)

	c.JSON(http.StatusCreated, gin.H{
		"id":    s.ID,
		"files": s.Files(),
		"stats": s.Stats(),
	})
}

// GetSession returns the session's files and aggregate state
func (h *UploadHandler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    s.ID,
		"files": s.Files(),
		"stats": s.Stats(),
		"busy":  s.Busy(),
	})
}

// AddFiles performs multipart intake. The whole batch is rejected when
// it exceeds the per-upload limit; individually invalid files are kept
// in error state. Valid files have their content staged to the blob
// store before any transfer starts.
func (h *UploadHandler) AddFiles(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload session not found"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
		return
	}

	infos := make([]service.FileInfo, len(headers))
	for i, fh := range headers {
		infos[i] = service.FileInfo{
			Name:     fh.Filename,
			Size:     fh.Size,
			MimeType: fh.Header.Get("Content-Type"),
		}
	}

	added, err := s.AddFiles(infos)
	if err != nil {
		if errors.Is(err, service.ErrBatchLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add files"})
		return
	}

	// stage content for the files that passed validation
	for i, f := range added {
		if f.Status != model.FileStatusPending {
			continue
		}
		if err := h.stage(c.Request.Context(), s, f, headers[i]); err != nil {
			logger.Warn(c.Request.Context(), "staging failed",
				"session_id", s.ID, "file", f.Name, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"files": s.Files(),
		"stats": s.Stats(),
	})
}

func (h *UploadHandler) stage(ctx context.Context, s *service.UploadSession, f model.UploadFile, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		s.FailIntake(f.ID, "failed to read file content")
		return err
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%s/%s", s.ID, f.ID, f.Name)
	if err := h.blobs.Put(ctx, key, src, fh.Size, fh.Header.Get("Content-Type")); err != nil {
		s.FailIntake(f.ID, "failed to stage file content")
		return err
	}
	return s.MarkStaged(f.ID, key)
}

// Start transfers every pending file concurrently
func (h *UploadHandler) Start(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload session not found"})
		return
	}

	started := s.UploadAll()
	logger.Info(c.Request.Context(), "upload batch started",
		"session_id", s.ID, "files", started)

	c.JSON(http.StatusOK, gin.H{
		"started": started,
		"stats":   s.Stats(),
	})
}

// RetryFile re-runs the transfer for one failed file
func (h *UploadHandler) RetryFile(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload session not found"})
		return
	}

	err = s.RetryFile(c.Param("fileID"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"stats": s.Stats()})
	case errors.Is(err, service.ErrFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
	case errors.Is(err, service.ErrNotRetryable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retry file"})
	}
}

// RemoveFile drops a file from the session and cleans up its staged
// content. Files in transfer cannot be removed.
func (h *UploadHandler) RemoveFile(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload session not found"})
		return
	}

	removed, err := s.RemoveFile(c.Param("fileID"))
	switch {
	case err == nil:
		if removed.ObjectKey != "" {
			if derr := h.blobs.Delete(c.Request.Context(), removed.ObjectKey); derr != nil {
				logger.Warn(c.Request.Context(), "staged content cleanup failed",
					"session_id", s.ID, "key", removed.ObjectKey, "error", derr)
			}
		}
		c.JSON(http.StatusOK, gin.H{"stats": s.Stats()})
	case errors.Is(err, service.ErrFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
	case errors.Is(err, service.ErrFileUploading):
		c.JSON(http.StatusConflict, gin.H{"error": "File transfer is in progress"})
	case errors.Is(err, service.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Upload session has transfers in progress"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove file"})
	}
}

// DeleteSession closes an idle session
func (h *UploadHandler) DeleteSession(c *gin.Context) {
	err := h.sessions.Remove(c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Upload session closed"})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload session not found"})
	case errors.Is(err, service.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Upload session has transfers in progress"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close session"})
	}
}
