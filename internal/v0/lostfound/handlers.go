package lostfound

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/common"
	"HostelAPI/internal/logging"
	"HostelAPI/internal/metrics"
	"HostelAPI/internal/v0/crud"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	resourceName = "lostfound"
	opUpload     = "upload"

	// ImagePrefix is the URL path uploaded photos are served under
	ImagePrefix = "/uploads/lostfound"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Handler adds photo uploads to the shared CRUD handlers
type Handler struct {
	*crud.Handler[Item, CreateItemRequest, UpdateItemRequest]
	repo      *Repository
	uploadDir string
	maxSize   int64
}

// NewHandler creates a lost and found handler storing photos under uploadDir/lostfound
func NewHandler(repo *Repository, uploadDir string, maxSize int64) *Handler {
	return &Handler{
		Handler:   crud.NewHandler[Item, CreateItemRequest, UpdateItemRequest](resourceName, "Item", repo),
		repo:      repo,
		uploadDir: uploadDir,
		maxSize:   maxSize,
	}
}

// UploadImage attaches a photo to a report. Only the reporter or an admin may do so.
// POST /lostfound/:id/image
func (h *Handler) UploadImage(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		common.Unauthorized(c, "not authenticated")
		return
	}

	id := c.Param("id")
	if !crud.ValidID(id) {
		h.Fail(c, opUpload, crud.ErrNotFound)
		return
	}

	item, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, opUpload, err)
		return
	}
	if item.UserID != user.ID && !auth.HasRole(user, auth.RoleAdmin) {
		metrics.RecordOperation(resourceName, opUpload, metrics.OutcomeForbidden)
		common.Forbidden(c, "only the reporter can change this item")
		return
	}

	// Leave room for the multipart framing around the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+1<<20)
	header, err := c.FormFile("image")
	if err != nil {
		metrics.RecordOperation(resourceName, opUpload, metrics.OutcomeInvalid)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.ValidationFailed(c, []string{h.sizeMessage()})
			return
		}
		common.ValidationFailed(c, []string{"image is required"})
		return
	}
	if header.Size > h.maxSize {
		metrics.RecordOperation(resourceName, opUpload, metrics.OutcomeInvalid)
		common.ValidationFailed(c, []string{h.sizeMessage()})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.Fail(c, opUpload, err)
		return
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		h.Fail(c, opUpload, err)
		return
	}
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		metrics.RecordOperation(resourceName, opUpload, metrics.OutcomeInvalid)
		common.ValidationFailed(c, []string{"image must be a JPEG, PNG, GIF or WebP file"})
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.Fail(c, opUpload, err)
		return
	}

	name := uuid.New().String() + mtype.Extension()
	if err := h.save(file, name); err != nil {
		h.Fail(c, opUpload, err)
		return
	}

	previous, err := h.repo.SetImage(c.Request.Context(), id, path.Join(ImagePrefix, name))
	if err != nil {
		h.remove(name)
		h.Fail(c, opUpload, err)
		return
	}
	if strings.HasPrefix(previous, ImagePrefix+"/") {
		h.remove(path.Base(previous))
	}

	item, err = h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, opUpload, err)
		return
	}
	metrics.RecordOperation(resourceName, opUpload, metrics.OutcomeOK)
	common.OKWithMessage(c, "Image uploaded successfully", item)
}

// Delete removes a report together with its uploaded photo.
// DELETE /lostfound/:id
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !crud.ValidID(id) {
		h.Fail(c, crud.OpDelete, crud.ErrNotFound)
		return
	}

	item, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, crud.OpDelete, err)
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.Fail(c, crud.OpDelete, err)
		return
	}
	if strings.HasPrefix(item.Image, ImagePrefix+"/") {
		h.remove(path.Base(item.Image))
	}

	metrics.RecordOperation(resourceName, crud.OpDelete, metrics.OutcomeOK)
	common.OKWithMessage(c, "Item deleted successfully", nil)
}

func (h *Handler) dir() string {
	return filepath.Join(h.uploadDir, "lostfound")
}

func (h *Handler) save(src io.Reader, name string) error {
	if err := os.MkdirAll(h.dir(), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.OpenFile(filepath.Join(h.dir(), name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		h.remove(name)
		return fmt.Errorf("write upload: %w", err)
	}
	return dst.Close()
}

func (h *Handler) remove(name string) {
	if err := os.Remove(filepath.Join(h.dir(), name)); err != nil && !os.IsNotExist(err) {
		logging.Warn().Err(err).Str("file", name).Msg("Failed to remove upload")
	}
}

func (h *Handler) sizeMessage() string {
	return fmt.Sprintf("image must be at most %d bytes", h.maxSize)
}
