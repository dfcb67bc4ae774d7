package httpapi

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/secureshare/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

// allowedExtensions lists the upload file types the service accepts.
var allowedExtensions = map[string]struct{}{
	"txt": {}, "pdf": {}, "png": {}, "jpg": {}, "jpeg": {},
	"gif": {}, "doc": {}, "docx": {}, "zip": {},
}

// allowedFile reports whether the file name carries an accepted extension.
func allowedFile(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(name[i+1:])]
	return ok
}

// fileInfo is the wire representation of a stored file record.
type fileInfo struct {
	FileID   string    `json:"file_id"`
	Name     string    `json:"name"`
	StoredAt time.Time `json:"stored_at"`
	Accessed bool      `json:"accessed"`
}

func toFileInfo(records []*models.FileRecord) []fileInfo {
	result := make([]fileInfo, 0, len(records))
	for _, r := range records {
		result = append(result, fileInfo{
			FileID:   r.ID,
			Name:     r.OriginalName,
			StoredAt: r.StoredAt,
			Accessed: r.Accessed,
		})
	}
	return result
}

// notificationInfo is the wire representation of a notification.
type notificationInfo struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// handleUpload accepts a multipart upload (field name: file), encrypts it
// and stores it under the caller's session.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}

	if !allowedFile(fh.Filename) {
		return writeError(c, fiber.StatusBadRequest, "FILE_TYPE_NOT_ALLOWED", "file type not allowed")
	}

	if fh.Size > s.config.MaxUploadSize {
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "uploaded file is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	defer f.Close()

	plaintext, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
	}

	fileID, err := s.vault.Store(c.UserContext(), sessionIDFromCtx(c), fh.Filename, plaintext)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"file_id": fileID,
		"name":    fh.Filename,
	})
}

// handleDownload streams the decrypted payload back to its owner. The file
// becomes permanently unavailable after the response is produced.
func (s *Server) handleDownload(c *fiber.Ctx) error {
	fileID := c.Params("id")

	plaintext, name, err := s.vault.Retrieve(c.UserContext(), sessionIDFromCtx(c), fileID)
	if err != nil {
		return writeServiceError(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(plaintext)
}

// handleFiles lists the caller's stored files, newest first.
func (s *Server) handleFiles(c *fiber.Ctx) error {
	records, err := s.vault.History(c.UserContext(), sessionIDFromCtx(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{"files": toFileInfo(records)})
}

// handleSearch filters the caller's files by keyword.
func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req struct {
		Keyword string `json:"keyword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid request body")
	}

	records, err := s.vault.Search(c.UserContext(), sessionIDFromCtx(c), req.Keyword)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{"keyword": req.Keyword, "files": toFileInfo(records)})
}

// handleNotifications returns the caller's notification feed, newest first.
func (s *Server) handleNotifications(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	list, err := s.notifications.List(c.UserContext(), sessionIDFromCtx(c), limit)
	if err != nil {
		return writeServiceError(c, err)
	}

	result := make([]notificationInfo, 0, len(list))
	for _, n := range list {
		result = append(result, notificationInfo{
			ID:        n.ID,
			Kind:      n.Kind,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
			Read:      n.Read,
		})
	}
	return c.JSON(fiber.Map{"notifications": result})
}

// handleNotificationRead marks one notification as read.
func (s *Server) handleNotificationRead(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	if err := s.notifications.MarkRead(c.UserContext(), sessionIDFromCtx(c), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleHealthz reports liveness, checking registry connectivity when a
// database is configured.
func (s *Server) handleHealthz(c *fiber.Ctx) error {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
}
