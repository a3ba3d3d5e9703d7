package quizzes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smartquiz-backend/internal/extract"
	"smartquiz-backend/internal/quizgen"
	"smartquiz-backend/internal/shared/server/middleware"
	"smartquiz-backend/internal/shared/server/respond"
	"smartquiz-backend/quiz/render"
)

const maxUploadSize = 25 << 20 // 25MB

// Handler wires HTTP handlers to the quizzes service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches quiz routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quizzes/generate", h.generate)
	rg.POST("/quizzes", h.save)
	rg.GET("/quizzes", h.list)
	rg.GET("/quizzes/:id", h.get)
	rg.DELETE("/quizzes/:id", h.remove)
	rg.POST("/quizzes/export", h.exportAdHoc)
	rg.GET("/quizzes/:id/export", h.exportStored)
}

func (h *Handler) generate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the 25MB upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	count := quizgen.DefaultQuestions
	if v := c.PostForm("count"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= quizgen.MinQuestions && parsed <= quizgen.MaxQuestions {
			count = parsed
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	quiz, err := h.Svc.GenerateFromUpload(c.Request.Context(), userID, fileHeader.Filename, contentType, file, count)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, extract.ErrUnsupportedFormat):
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "only .pptx, .docx and .pdf files are supported", nil)
		case errors.Is(err, extract.ErrExtractionFailed):
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "could not extract text from the document", nil)
		case errors.Is(err, quizgen.ErrGenerationFailed):
			respond.Error(c, http.StatusBadGateway, "generation_failed", "quiz generation failed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate quiz", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, GeneratedResponse{
		Title:         quiz.Title,
		SourceFile:    quiz.SourceFile,
		Questions:     quiz.Questions,
		QuestionCount: quiz.QuestionCount,
	})
}

func (h *Handler) save(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	quiz, err := h.Svc.Save(c.Request.Context(), userID, Quiz{
		Title:      req.Title,
		SourceFile: req.SourceFile,
		Questions:  req.Questions,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save quiz", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(quiz))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	quizzes, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list quizzes", nil)
		return
	}

	resp := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		resp = append(resp, toResponse(quiz))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	quiz, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "quiz not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch quiz", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(quiz))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "quiz not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete quiz", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

// exportAdHoc renders a PDF from the request payload without persisting
// anything, so an unsaved quiz can still be downloaded.
func (h *Handler) exportAdHoc(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Title == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "title is required", nil)
		return
	}

	pdf, err := h.Svc.Export(c.Request.Context(), Quiz{
		Title:      req.Title,
		SourceFile: req.SourceFile,
		Questions:  req.Questions,
	})
	if err != nil {
		h.respondRenderError(c, err)
		return
	}
	writePDF(c, req.Title, pdf)
}

func (h *Handler) exportStored(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	quiz, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "quiz not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch quiz", nil)
		}
		return
	}

	pdf, err := h.Svc.Export(c.Request.Context(), quiz)
	if err != nil {
		h.respondRenderError(c, err)
		return
	}
	writePDF(c, quiz.Title, pdf)
}

func (h *Handler) respondRenderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, render.ErrRenderFailed):
		respond.Error(c, http.StatusInternalServerError, "render_failed", "failed to render quiz PDF", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export quiz", nil)
	}
}

func writePDF(c *gin.Context, title string, pdf []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", title+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
