package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/ppiankov/numinfo/internal/export"
	"github.com/ppiankov/numinfo/internal/lookup"
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/phone"
	"github.com/ppiankov/numinfo/internal/pipeline"
	"github.com/ppiankov/numinfo/internal/summary"
	"go.uber.org/zap"
)

var (
	errBadPayload = &echo.HTTPError{
		Code:    http.StatusBadRequest,
		Message: "invalid request payload, please ensure it is well-formed and has content-type application/json header",
	}
	errBusy = &echo.HTTPError{
		Code:    http.StatusConflict,
		Message: "a submission is already in progress",
	}
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLookup(c echo.Context) error {
	var req lookupRequest
	if err := c.Bind(&req); err != nil {
		return errBadPayload
	}
	if !phone.IsValid(req.Number) {
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: pipeline.ErrInvalidNumber.Error()}
	}

	release, ok := s.acquire()
	if !ok {
		return errBusy
	}
	record, err := s.svc.SubmitOne(c.Request().Context(), req.Number)
	notices := release()

	if err != nil {
		return c.JSON(statusFor(err), lookupResponse{Error: err.Error(), Notices: notices})
	}
	return c.JSON(http.StatusOK, lookupResponse{Record: &record, Notices: notices})
}

func (s *Server) handleBatch(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return errBadPayload
	}
	if len(req.Numbers) == 0 && strings.TrimSpace(req.Text) == "" {
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: "numbers or text is required"}
	}

	release, ok := s.acquire()
	if !ok {
		return errBusy
	}

	ctx := c.Request().Context()
	var (
		outcome model.Outcome
		err     error
	)
	if len(req.Numbers) > 0 {
		outcome = s.svc.Submit(ctx, req.Numbers)
	} else {
		outcome, err = s.svc.SubmitText(ctx, req.Text)
	}
	notices := release()

	if err != nil {
		return c.JSON(statusFor(err), errorResponse{Error: err.Error(), Notices: notices})
	}
	return c.JSON(http.StatusOK, newBatchResponse(outcome, notices))
}

func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: "file field is required"}
	}

	limit := s.cfg.MaxUploadSize
	if limit <= 0 || limit > phone.MaxFileSize {
		limit = phone.MaxFileSize
	}
	if fh.Size > limit {
		return &echo.HTTPError{Code: http.StatusRequestEntityTooLarge, Message: phone.ErrTooLarge.Error()}
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	release, ok := s.acquire()
	if !ok {
		return errBusy
	}
	outcome, err := s.svc.SubmitFile(c.Request().Context(), fh.Filename, content)
	notices := release()

	if err != nil {
		s.logger.Warn("upload rejected", zap.String("file", fh.Filename), zap.Error(err))
		return c.JSON(statusFor(err), errorResponse{Error: err.Error(), Notices: notices})
	}
	return c.JSON(http.StatusOK, newBatchResponse(outcome, notices))
}

func (s *Server) handleSummary(c echo.Context) error {
	var req summaryRequest
	if err := c.Bind(&req); err != nil {
		return errBadPayload
	}
	return c.JSON(http.StatusOK, summaryResponse{
		Summary: summarize(req.Records),
		Total:   len(req.Records),
	})
}

func (s *Server) handleExport(c echo.Context) error {
	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	var req summaryRequest
	if err := c.Bind(&req); err != nil {
		return errBadPayload
	}

	filename, payload, err := s.svc.Export(req.Records, c.QueryParam("scope"), format)
	if errors.Is(err, export.ErrNoData) {
		return &echo.HTTPError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	}
	if err != nil {
		return &echo.HTTPError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, export.ContentType(format), []byte(payload))
}

func newBatchResponse(outcome model.Outcome, notices []notify.Notice) batchResponse {
	return batchResponse{
		Records: outcome.Records,
		Summary: summarize(outcome.Records),
		Failed:  outcome.FailureCount(),
		Total:   outcome.Total(),
		Notices: notices,
	}
}

func summarize(records []model.LookupRecord) []summaryEntry {
	counts := summary.Summarize(records)
	entries := make([]summaryEntry, len(counts))
	for i, c := range counts {
		entries[i] = summaryEntry{
			Operator: c.Operator,
			Count:    c.Count,
			Share:    summary.Share(c.Count, len(records)),
		}
	}
	return entries
}

// statusFor maps submission errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrInvalidNumber):
		return http.StatusBadRequest
	case errors.Is(err, phone.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, phone.ErrNotText):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, phone.ErrNoNumbers):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch lookup.KindOf(err) {
	case lookup.InvalidInput:
		return http.StatusBadRequest
	case lookup.RemoteError, lookup.DecodeError, lookup.TransportError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
