package handler

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pustaka-activity-api/internal/dto"
	"github.com/noah-isme/pustaka-activity-api/internal/export"
	"github.com/noah-isme/pustaka-activity-api/internal/middleware"
	"github.com/noah-isme/pustaka-activity-api/internal/service"
	"github.com/noah-isme/pustaka-activity-api/internal/utils"
)

// ActivityReportHandler exposes the activity log dashboard endpoints.
type ActivityReportHandler struct {
	service   service.ActivityReportService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewActivityReportHandler constructs the handler.
func NewActivityReportHandler(service service.ActivityReportService, validate *validator.Validate, logger zerolog.Logger) *ActivityReportHandler {
	return &ActivityReportHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "activity_report_handler").Logger(),
	}
}

// Register binds the report routes. Export routes can be wrapped with extra
// middleware such as a rate limiter.
func (h *ActivityReportHandler) Register(router fiber.Router, exportMiddleware ...fiber.Handler) {
	router.Get("/", h.report)

	exports := router.Group("/export", exportMiddleware...)
	exports.Get("/csv", h.exportCSV)
	exports.Get("/report", h.exportReport)

	router.Post("/refresh", h.refresh)
	router.Get("/:id", h.detail)
}

func (h *ActivityReportHandler) report(c *fiber.Ctx) error {
	query, err := h.parseQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Report(requestContext(c), query)
	if err != nil {
		return h.sendServiceError(c, err, "failed to build activity report")
	}

	c.Set("X-Cache-Hit", strconv.FormatBool(response.CacheHit))
	return utils.SendSuccess(c, "activity report", response)
}

func (h *ActivityReportHandler) detail(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "activity id required")
	}

	record, err := h.service.Detail(requestContext(c), id)
	if err != nil {
		return h.sendServiceError(c, err, "failed to load activity")
	}

	return utils.SendSuccess(c, "activity detail", record)
}

func (h *ActivityReportHandler) exportCSV(c *fiber.Ctx) error {
	query, err := h.parseQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := h.service.ExportCSV(requestContext(c), query)
	if err != nil {
		return h.sendServiceError(c, err, "failed to export activity csv")
	}

	requestLogger(h.logger, c).Info().Int("rows", file.Rows).Msg("activity csv exported")
	return utils.SendAttachment(c, file.ContentType, file.FileName, file.Body)
}

func (h *ActivityReportHandler) exportReport(c *fiber.Ctx) error {
	query, err := h.parseQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var buf bytes.Buffer
	file, delivered, err := h.service.ExportReport(requestContext(c), query, reportSurface(c, &buf))
	if err != nil {
		return h.sendServiceError(c, err, "failed to render activity report")
	}
	if !delivered {
		return c.SendStatus(fiber.StatusNoContent)
	}

	requestLogger(h.logger, c).Info().Int("rows", file.Rows).Msg("printable activity report rendered")
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// reportSurface declines the printable report when the client cannot take HTML.
func reportSurface(c *fiber.Ctx, buf *bytes.Buffer) export.Surface {
	if c.Accepts(fiber.MIMETextHTML) == "" {
		return export.WriterSurface(nil)
	}
	return export.WriterSurface(buf)
}

func (h *ActivityReportHandler) refresh(c *fiber.Ctx) error {
	if err := h.service.Refresh(requestContext(c)); err != nil {
		return h.sendServiceError(c, err, "failed to refresh activity report")
	}
	return utils.SendSuccess(c, service.RefreshMessage, nil)
}

func (h *ActivityReportHandler) parseQuery(c *fiber.Ctx) (dto.ActivityReportQuery, error) {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return dto.ActivityReportQuery{}, errors.New("invalid page")
	}

	query := dto.ActivityReportQuery{
		Period:        strings.ToLower(strings.TrimSpace(c.Query("period"))),
		Start:         strings.TrimSpace(c.Query("start")),
		End:           strings.TrimSpace(c.Query("end")),
		Kinds:         strings.Join(splitAndTrim(c.Query("kinds")), ","),
		User:          strings.TrimSpace(c.Query("user")),
		Book:          strings.TrimSpace(c.Query("book")),
		Sort:          strings.ToLower(strings.TrimSpace(c.Query("sort"))),
		Direction:     strings.ToLower(strings.TrimSpace(c.Query("dir"))),
		Toggle:        strings.ToLower(strings.TrimSpace(c.Query("toggle"))),
		Page:          page,
		KindsProvided: c.Context().QueryArgs().Has("kinds"),
	}

	if err := h.validator.Struct(query); err != nil {
		return dto.ActivityReportQuery{}, err
	}
	return query, nil
}

func (h *ActivityReportHandler) sendServiceError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidReportQuery), isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}
