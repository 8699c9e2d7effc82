package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/notification"
)

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *notification.Service) {
	api := notificationApi{svc: svc}

	ng := g.Group("/classes/:id/notifications", jwt)
	ng.GET("/low-attendance", api.lowAttendance)
	ng.POST("/send", api.sendAlerts)
}

// Handlers

func (api *notificationApi) lowAttendance(ctx echo.Context) error {
	threshold, err := parseThreshold(ctx.QueryParam("threshold"))
	if err != nil {
		return err
	}

	alerts, err := api.svc.LowAttendance(ctx.Request().Context(), ctx.Param("id"), threshold, nil)
	if err != nil {
		return err
	}
	if alerts == nil {
		alerts = []notification.Alert{}
	}
	return ctx.JSON(http.StatusOK, alerts)
}

func (api *notificationApi) sendAlerts(ctx echo.Context) error {
	var data SendAlertsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SendAlertsRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	outcomes, err := api.svc.SendAlerts(
		ctx.Request().Context(),
		ctx.Param("id"),
		data.Channel,
		data.Threshold,
		data.StudentIDs,
	)
	if err != nil {
		return err
	}
	if outcomes == nil {
		outcomes = []notification.Outcome{}
	}
	return ctx.JSON(http.StatusOK, SendAlertsResponse{Outcomes: outcomes, Total: len(outcomes)})
}

func parseThreshold(val string) (float64, error) {
	if val == "" {
		return 0, nil // service falls back to the configured default
	}
	threshold, err := strconv.ParseFloat(val, 64)
	if err != nil || threshold < 0 || threshold > 100 {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "threshold", Error: "must be a number between 0 and 100"})
	}
	return threshold, nil
}

type (
	SendAlertsRequest struct {
		Channel    notification.Channel `json:"channel" validate:"required,oneof=SMS WhatsApp Email"`
		Threshold  float64              `json:"threshold" validate:"omitempty,min=0,max=100"`
		StudentIDs []string             `json:"student_ids"`
	}

	SendAlertsResponse struct {
		Outcomes []notification.Outcome `json:"outcomes"`
		Total    int                    `json:"total"`
	}
)

func (r *SendAlertsRequest) Validate() error { return core.Validate.Struct(r) }
