package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shuttle-service/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReadinessCheck reports whether downstream dependencies are reachable.
type ReadinessCheck func(ctx context.Context) error

type Handler struct {
	dashboardService *service.DashboardService
	ready            ReadinessCheck
	log              zerolog.Logger
}

func NewHandler(dashboardService *service.DashboardService, ready ReadinessCheck, log zerolog.Logger) *Handler {
	return &Handler{
		dashboardService: dashboardService,
		ready:            ready,
		log:              log,
	}
}

func (h *Handler) readyz(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			h.log.Warn().Err(err).Msg("readiness check failed")
			c.JSON(http.StatusServiceUnavailable, errorResponse("not ready"))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) getSchedule(c *gin.Context) {
	query, err := parseScheduleQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	view, err := h.dashboardService.Schedule(c.Request.Context(), query)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(view))
}

func (h *Handler) exportSchedule(c *gin.Context) {
	query, err := parseScheduleQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var buf bytes.Buffer
	if err := h.dashboardService.ExportSchedule(c.Request.Context(), query, &buf); err != nil {
		h.handleError(c, err)
		return
	}

	name := "schedule.xlsx"
	if query.Day != "" {
		name = fmt.Sprintf("schedule-%s.xlsx", strings.ToLower(strings.TrimSpace(query.Day)))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) getTripLifecycle(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid trip id"))
		return
	}

	row, err := h.dashboardService.TripLifecycle(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(row))
}

func (h *Handler) getClearance(c *gin.Context) {
	board, err := h.dashboardService.Clearance(c.Request.Context(), c.Query("shift"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(board))
}

func (h *Handler) getWorksiteClearance(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("worksite_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid worksite id"))
		return
	}

	res, err := h.dashboardService.WorksiteClearance(c.Request.Context(), id, c.Query("shift"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(res))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

type scheduleQueryParams struct {
	Day        string `form:"day"`
	Search     string `form:"search"`
	Shift      string `form:"shift"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
}

func parseScheduleQuery(c *gin.Context) (service.ScheduleQuery, error) {
	var params scheduleQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return service.ScheduleQuery{}, err
	}

	query := service.ScheduleQuery{
		Day:    strings.TrimSpace(params.Day),
		Search: params.Search,
		Shift:  params.Shift,
	}
	if params.LocationID != "" {
		id, err := uuid.Parse(params.LocationID)
		if err != nil {
			return query, errors.New("invalid location_id")
		}
		query.LocationID = &id
	}
	return query, nil
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
