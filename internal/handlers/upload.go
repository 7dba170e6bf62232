package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Xyleee/api-devguidance/internal/services"
	"github.com/Xyleee/api-devguidance/pkg/errors"
	"github.com/Xyleee/api-devguidance/pkg/logger"
)

const maxUploadSize = 5 << 20

// uploadRule restricts what a single upload field accepts.
type uploadRule struct {
	folder     string
	extensions map[string]bool
	rejectMsg  string
}

func extSet(exts ...string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return m
}

var (
	messageAttachmentRule = uploadRule{
		folder: services.FolderMessages,
		extensions: extSet(
			".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg",
			".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx", ".txt",
			".js", ".html", ".css", ".json", ".md",
			".zip", ".rar",
		),
		rejectMsg: "File type not allowed",
	}
	resumeRule = uploadRule{
		folder:     services.FolderResumes,
		extensions: extSet(".pdf", ".doc", ".docx"),
		rejectMsg:  "Only PDF and Word documents are allowed!",
	}
	profileImageRule = uploadRule{
		folder:     services.FolderProfiles,
		extensions: extSet(".jpg", ".jpeg", ".png", ".gif", ".webp"),
		rejectMsg:  "Not an image! Please upload only images.",
	}
)

var uploader services.ObjectUploader

// SetUploader installs the object storage backend. With none installed,
// upload endpoints answer 500.
func SetUploader(u services.ObjectUploader) {
	uploader = u
}

func (r uploadRule) check(header *multipart.FileHeader) error {
	if header.Size > maxUploadSize {
		return errors.BadRequest("File is too large (max 5MB)")
	}
	if !r.extensions[strings.ToLower(filepath.Ext(header.Filename))] {
		return errors.BadRequest(r.rejectMsg)
	}
	return nil
}

// storeUpload validates header against rule and writes it to object storage,
// returning the public URL.
func storeUpload(c *gin.Context, header *multipart.FileHeader, rule uploadRule) (string, error) {
	if err := rule.check(header); err != nil {
		return "", err
	}
	if uploader == nil {
		return "", errors.Internal("File uploads are not configured")
	}

	file, err := header.Open()
	if err != nil {
		return "", errors.BadRequest("Could not read uploaded file")
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := uploader.Upload(c.Request.Context(), rule.folder, header.Filename, file, contentType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", header.Filename, err)
	}

	logger.Info().Str("folder", rule.folder).Int64("size", header.Size).Msg("File uploaded")
	return url, nil
}

// formFile returns the named multipart file, or nil when the request has
// none.
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	header, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return header
}

// UploadResume stores an adviser applicant's resume.
func UploadResume(c *gin.Context) {
	header := formFile(c, "file")
	if header == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}

	url, err := storeUpload(c, header, resumeRule)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filePath": url,
		"message":  "File uploaded successfully",
	})
}
