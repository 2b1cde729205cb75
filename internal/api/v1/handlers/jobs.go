package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "videomasa/internal/api/errors"
	"videomasa/internal/api/middleware"
	"videomasa/internal/api/v1/dto"
	"videomasa/internal/api/v1/services"
	"videomasa/internal/app/jobs"
)

// JobHandler handles job submission, status and file requests
type JobHandler struct {
	service services.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(service services.JobService) *JobHandler {
	return &JobHandler{
		service: service,
	}
}

func (h *JobHandler) fail(c *gin.Context, err error) {
	middleware.HandleError(c, toAPIError(err))
}

// Process handles POST /process
func (h *JobHandler) Process(c *gin.Context) {
	var req dto.ProcessRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	id, err := h.service.Submit(jobs.Request{
		URL:        req.URL,
		Model:      req.Model,
		Transcribe: req.WantsTranscribe(),
		Download:   req.WantsDownload(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.JobIDResponse{JobID: id})
}

// Upload handles POST /upload
func (h *JobHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.fail(c, jobs.ErrNoFile)
			return
		}
		h.fail(c, err)
		return
	}

	var form dto.UploadForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandleError(c, apierrors.NewValidationError("Validation failed", map[string]string{"model": "is invalid"}))
		return
	}

	file, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer file.Close()

	id, err := h.service.SubmitUpload(jobs.UploadRequest{
		Filename:   fh.Filename,
		Model:      form.Model,
		Transcribe: formBool(c, "transcribe", true),
		Download:   formBool(c, "download", false),
	}, file)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.JobIDResponse{JobID: id})
}

// formBool reads a checkbox-style field; absent fields take def.
func formBool(c *gin.Context, key string, def bool) bool {
	v, ok := c.GetPostForm(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Status handles GET /status/:id
func (h *JobHandler) Status(c *gin.Context) {
	job, err := h.service.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Merge handles POST /merge/:id
func (h *JobHandler) Merge(c *gin.Context) {
	var req dto.MergeRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	result, err := h.service.Merge(c.Param("id"), jobs.MergeRequest{
		Download:   req.Download,
		Transcribe: req.Transcribe,
		Model:      req.Model,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MergeResponse{
		OK:            result.OK,
		DownloadReady: result.DownloadReady,
		Filename:      result.Filename,
	})
}

// Retranscribe handles POST /retranscribe/:id
func (h *JobHandler) Retranscribe(c *gin.Context) {
	var req dto.RetranscribeRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	modelName, err := h.service.Retranscribe(c.Param("id"), req.Model)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RetranscribeResponse{OK: true, Model: modelName})
}

// Download handles GET /download/:id
func (h *JobHandler) Download(c *gin.Context) {
	path, filename, err := h.service.DownloadFile(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.FileAttachment(path, filename)
}

// DownloadMP3 handles GET /download-mp3/:id
func (h *JobHandler) DownloadMP3(c *gin.Context) {
	path, filename, err := h.service.MP3(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Type", "audio/mpeg")
	c.FileAttachment(path, filename)
}

// Cleanup handles POST /cleanup/:id
func (h *JobHandler) Cleanup(c *gin.Context) {
	if err := h.service.CleanupJob(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Thumb handles GET /thumb/:id
func (h *JobHandler) Thumb(c *gin.Context) {
	path, err := h.service.Thumbnail(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Type", "image/jpeg")
	c.File(path)
}
