package core

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

// Scheduler is the store surface the HTTP layer depends on.
type Scheduler interface {
	Add(ctx context.Context, form EventFormData) (Event, error)
	Update(ctx context.Context, id string, form EventFormData) (Event, error)
	Move(ctx context.Context, id string, newDate time.Time) (Event, error)
	Delete(ctx context.Context, id string) error
	Get(id string) (Event, error)
	List() []Event
	Search(query string) []Event
	FilterByColor(color Color) []Event
	OccurrencesOn(day time.Time) []Event
	Month(year int, month time.Month) MonthGrid
}

type Handlers interface {
	PostEvents(gctx *gin.Context)
	GetEvents(gctx *gin.Context)
	GetEvent(gctx *gin.Context)
	PutEvent(gctx *gin.Context)
	DeleteEvent(gctx *gin.Context)
	MoveEvent(gctx *gin.Context)
	GetDay(gctx *gin.Context)
	GetMonth(gctx *gin.Context)
}

type handlers struct {
	scheduler Scheduler
}

func NewHandlers(scheduler Scheduler) Handlers {
	return &handlers{scheduler: scheduler}
}

func (h *handlers) PostEvents(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var form EventFormData

	err := gctx.ShouldBindJSON(&form)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	event, err := h.scheduler.Add(ctx, form)
	if err != nil {
		h.abortWithFailure(gctx, "adding event failed", err)
		return
	}

	gctx.JSON(http.StatusCreated, event)
}

func (h *handlers) GetEvents(gctx *gin.Context) {
	// q takes precedence over color; both are optional.
	if query := gctx.Query("q"); query != "" {
		gctx.JSON(http.StatusOK, h.scheduler.Search(query))
		return
	}

	if color := gctx.Query("color"); color != "" {
		gctx.JSON(http.StatusOK, h.scheduler.FilterByColor(Color(color)))
		return
	}

	gctx.JSON(http.StatusOK, h.scheduler.List())
}

func (h *handlers) GetEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	event, err := h.scheduler.Get(gctx.Param("id"))
	if err != nil {
		log.Ctx(ctx).Info().Str("event_id", gctx.Param("id")).Msg("event not found")
		gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("event not found", err))

		return
	}

	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) PutEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var form EventFormData

	err := gctx.ShouldBindJSON(&form)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	event, err := h.scheduler.Update(ctx, gctx.Param("id"), form)
	if err != nil {
		h.abortWithFailure(gctx, "updating event failed", err)
		return
	}

	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) DeleteEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	err := h.scheduler.Delete(ctx, gctx.Param("id"))
	if err != nil {
		h.abortWithFailure(gctx, "deleting event failed", err)
		return
	}

	gctx.Status(http.StatusNoContent)
}

func (h *handlers) MoveEvent(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req struct {
		Date string `json:"date"`
	}

	err := gctx.ShouldBindJSON(&req)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to bind JSON")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("failed to bind JSON", err))

		return
	}

	newDate, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("invalid date")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("date must be formatted YYYY-MM-DD", err))

		return
	}

	event, err := h.scheduler.Move(ctx, gctx.Param("id"), newDate)
	if err != nil {
		h.abortWithFailure(gctx, "moving event failed", err)
		return
	}

	gctx.JSON(http.StatusOK, event)
}

func (h *handlers) GetDay(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	day, err := time.Parse(dateLayout, gctx.Param("date"))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("invalid date")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("date must be formatted YYYY-MM-DD", err))

		return
	}

	gctx.JSON(http.StatusOK, h.scheduler.OccurrencesOn(day))
}

func (h *handlers) GetMonth(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	year, err := strconv.Atoi(gctx.Param("year"))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("invalid year")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("year must be an integer", err))

		return
	}

	month, err := strconv.Atoi(gctx.Param("month"))
	if err != nil || month < 1 || month > 12 {
		log.Ctx(ctx).Error().Err(err).Msg("invalid month")
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError("month must be an integer between 1 and 12", err))

		return
	}

	gctx.JSON(http.StatusOK, h.scheduler.Month(year, time.Month(month)))
}

// abortWithFailure maps engine failures onto the HTTP taxonomy: conflicts are
// 409 with the conflicting events attached, unknown ids are 404, anything
// else is a validation failure.
func (h *handlers) abortWithFailure(gctx *gin.Context, message string, err error) {
	ctx := gctx.Request.Context()

	var conflictErr *ConflictError

	switch {
	case errors.As(err, &conflictErr):
		log.Ctx(ctx).Info().Int("conflicts", len(conflictErr.Conflicts)).Msg("event rejected for conflicts")
		gctx.AbortWithStatusJSON(http.StatusConflict, ConflictResponse{
			Message:   err.Error(),
			Conflicts: conflictErr.Conflicts,
		})

	case errors.Is(err, ErrEventNotFound):
		log.Ctx(ctx).Info().Str("event_id", gctx.Param("id")).Msg("event not found")
		gctx.AbortWithStatusJSON(http.StatusNotFound, NewError("event not found", err))

	default:
		log.Ctx(ctx).Error().Err(err).Msg(message)
		gctx.AbortWithStatusJSON(http.StatusBadRequest, NewError(message, err))
	}
}
