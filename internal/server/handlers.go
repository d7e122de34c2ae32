package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/originscan/internal/archive"
	"github.com/ppiankov/originscan/internal/model"
)

// ErrorBody is the error object of every failed response
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps the error body
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func (s *Server) respondError(c *gin.Context, status int, code, message string) {
	s.logger.Warn("http error",
		"request_id", RequestIDFromContext(c),
		"status", status,
		"code", code,
		"message", message,
		"path", c.Request.URL.Path)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

func (s *Server) createAnalysis(c *gin.Context) {
	if s.cfg.MaxUploadBytes > 0 {
		// multipart framing needs some room on top of the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes+64*1024)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(c, http.StatusRequestEntityTooLarge, "file_too_large", "uploaded file exceeds the size limit")
			return
		}
		s.respondError(c, http.StatusBadRequest, "validation_error", "file is required")
		return
	}
	if s.cfg.MaxUploadBytes > 0 && fileHeader.Size > s.cfg.MaxUploadBytes {
		s.respondError(c, http.StatusRequestEntityTooLarge, "file_too_large", "uploaded file exceeds the size limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.respondError(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}

	ctx := c.Request.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	report, err := s.analyzer.AnalyzeDocument(ctx, data, fileHeader.Filename)
	if err != nil {
		s.respondAnalysisError(c, err)
		return
	}

	if err := archive.SaveReport(ctx, s.store, report); err != nil {
		s.logger.Error("archive report", "id", report.ID, "error", err)
		s.respondError(c, http.StatusInternalServerError, "archive_failed", "report could not be stored")
		return
	}

	c.Header("Location", "/api/v1/analyses/"+report.ID)
	c.JSON(http.StatusCreated, report)
}

func (s *Server) respondAnalysisError(c *gin.Context, err error) {
	var (
		scanned    *model.ScannedDocumentError
		extraction *model.ExtractionError
	)
	switch {
	case errors.As(err, &scanned):
		s.respondError(c, http.StatusUnprocessableEntity, "scanned_document", err.Error())
	case errors.As(err, &extraction):
		s.respondError(c, http.StatusUnprocessableEntity, "extraction_failed", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.respondError(c, http.StatusGatewayTimeout, "timeout", "analysis timed out")
	default:
		s.respondError(c, http.StatusInternalServerError, "internal", "analysis failed")
	}
}

func (s *Server) getAnalysis(c *gin.Context) {
	report, err := archive.LoadReport(c.Request.Context(), s.store, c.Param("id"))
	if errors.Is(err, archive.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, "not_found", "analysis not found")
		return
	}
	if err != nil {
		s.logger.Error("load report", "id", c.Param("id"), "error", err)
		s.respondError(c, http.StatusInternalServerError, "internal", "report could not be loaded")
		return
	}
	c.JSON(http.StatusOK, report)
}
