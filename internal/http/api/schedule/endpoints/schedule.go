package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/svitlo-tech/svitlo-tracker/internal/http/api"
	"github.com/svitlo-tech/svitlo-tracker/internal/http/api/schedule/packets"
	"github.com/svitlo-tech/svitlo-tracker/internal/model"
	"github.com/svitlo-tech/svitlo-tracker/internal/yasno"
)

// ScheduleService is the schedule read surface. *yasno.Client implements it.
type ScheduleService interface {
	FetchAll(ctx context.Context) (yasno.Aggregate, error)
	ResolveQueue(ctx context.Context, operatorCode, queueNumber string) (*model.QueueSchedule, bool, error)
}

type ScheduleController struct {
	schedules ScheduleService
}

func NewScheduleController(schedules ScheduleService) *ScheduleController {
	return &ScheduleController{schedules: schedules}
}

func ScheduleModule(schedules ScheduleService) api.Module {
	ctl := NewScheduleController(schedules)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedule", api.ResolveEndpoint(ctl.getSchedule))
	})
}

// getSchedule serves both read operations: with operator+queue query params
// it resolves one queue, otherwise it lists every operator. A queue that
// does not exist is a distinct NOT_FOUND, never conflated with the
// provider being down.
func (s *ScheduleController) getSchedule(ctx *gin.Context) (any, *api.Error) {
	operatorCode := ctx.Query("operator")
	queueNumber := ctx.Query("queue")

	if operatorCode != "" && queueNumber != "" {
		schedule, noOutages, err := s.schedules.ResolveQueue(ctx.Request.Context(), operatorCode, queueNumber)
		if err != nil {
			log.Error().Err(err).Msg("schedule lookup failed")
			return nil, &api.Error{
				Code:    http.StatusInternalServerError,
				ErrCode: "FETCH_ERROR",
				Message: "Помилка завантаження графіку",
				Details: err.Error(),
			}
		}
		if schedule == nil {
			return nil, &api.Error{
				Code:    http.StatusNotFound,
				ErrCode: "NOT_FOUND",
				Message: "Графік не знайдено",
			}
		}
		return packets.ScheduleResponse{
			Success:   true,
			Data:      schedule,
			NoOutages: noOutages,
			Meta: packets.Meta{
				OperatorCode: operatorCode,
				QueueNumber:  queueNumber,
				FetchedAt:    time.Now().UTC().Format(time.RFC3339),
			},
		}, nil
	}

	agg, err := s.schedules.FetchAll(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("schedule fetch failed")
		return nil, &api.Error{
			Code:    http.StatusInternalServerError,
			ErrCode: "FETCH_ERROR",
			Message: "Помилка завантаження графіку",
			Details: err.Error(),
		}
	}
	return packets.ScheduleResponse{
		Success:   true,
		Data:      agg.Operators,
		NoOutages: agg.NoOutages,
		Meta:      packets.Meta{FetchedAt: time.Now().UTC().Format(time.RFC3339)},
	}, nil
}
