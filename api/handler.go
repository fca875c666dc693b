package api

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/memoscribe/errors"
	"github.com/kbukum/memoscribe/server"
	"github.com/kbukum/memoscribe/transcription"
)

// FormField is the multipart field carrying the audio file.
const FormField = "file"

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to disk.
const multipartMemory = 32 << 20

// MsgFrontendNotBuilt is returned by GET / without a built frontend.
const MsgFrontendNotBuilt = "Frontend not built"

// Transcriber turns an upload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, upload transcription.Upload) (string, error)
}

// TranscribeResponse is the success body of POST /api/transcribe.
type TranscribeResponse struct {
	Text string `json:"text"`
}

// Handler serves the transcription API and the frontend.
type Handler struct {
	transcriber Transcriber
	staticDir   string
}

// NewHandler creates a handler. staticDir holds index.html and assets.
func NewHandler(t Transcriber, staticDir string) *Handler {
	return &Handler{transcriber: t, staticDir: staticDir}
}

// Register mounts the routes on r. mws run on the /api group only.
func (h *Handler) Register(r *gin.Engine, mws ...gin.HandlerFunc) {
	api := r.Group("/api", mws...)
	api.POST("/transcribe", h.Transcribe)

	r.GET("/", h.Index)
	if info, err := os.Stat(h.staticDir); err == nil && info.IsDir() {
		r.Static("/static", h.staticDir)
	}
}

// Transcribe handles POST /api/transcribe.
func (h *Handler) Transcribe(c *gin.Context) {
	upload, err := uploadFrom(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	text, err := h.transcriber.Transcribe(c.Request.Context(), upload)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, TranscribeResponse{Text: text})
}

// uploadFrom extracts the file part. A "file" part sent without a filename
// is passed on with an empty name so the pipeline rejects it.
func uploadFrom(c *gin.Context) (transcription.Upload, error) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return transcription.Upload{}, errors.PayloadTooLarge()
		}
		return transcription.Upload{}, errors.InvalidInput(FormField, "expected a multipart/form-data body")
	}

	form := c.Request.MultipartForm
	if files := form.File[FormField]; len(files) > 0 {
		fh := files[0]
		return transcription.NewUploadFunc(fh.Filename, func() (io.ReadCloser, error) {
			return fh.Open()
		}), nil
	}
	if values, ok := form.Value[FormField]; ok {
		return transcription.NewUpload("", []byte(values[0])), nil
	}
	return transcription.Upload{}, errors.InvalidInput(FormField, "a file upload is required")
}

// Index serves the frontend entry page.
func (h *Handler) Index(c *gin.Context) {
	index := filepath.Join(h.staticDir, "index.html")
	if info, err := os.Stat(index); err != nil || info.IsDir() {
		server.RespondWithError(c, errors.NotFound(MsgFrontendNotBuilt))
		return
	}
	c.File(index)
}
