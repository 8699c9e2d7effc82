package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/classes/:id/attendance", jwt)
	ag.GET("", api.retrieve)
	ag.POST("", api.save)
	ag.GET("/history", api.history)
	ag.PUT("/lock", api.lock)
}

// Handlers

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	date, err := parseDate(ctx.QueryParam("date"), "date")
	if err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	att, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"), claims.Subject, date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *attendanceApi) save(ctx echo.Context) error {
	var data SaveAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SaveAttendanceRequest")
	}
	sr, err := data.SaveRecords()
	if err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	att, err := api.svc.Save(ctx.Request().Context(), ctx.Param("id"), claims.Subject, sr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *attendanceApi) history(ctx echo.Context) error {
	start, err := parseDate(ctx.QueryParam("start_date"), "start_date")
	if err != nil {
		return err
	}
	end, err := parseDate(ctx.QueryParam("end_date"), "end_date")
	if err != nil {
		return err
	}

	atts, err := api.svc.History(ctx.Request().Context(), ctx.Param("id"), start, end)
	if err != nil {
		return err
	}
	if atts == nil {
		atts = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, atts)
}

func (api *attendanceApi) lock(ctx echo.Context) error {
	var data LockAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LockAttendanceRequest")
	}
	date, err := parseDate(data.Date, "date")
	if err != nil {
		return err
	}

	att, err := api.svc.Lock(ctx.Request().Context(), ctx.Param("id"), date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, att)
}

type (
	SaveAttendanceRequest struct {
		Date    string                   `json:"date"`
		Records []attendance.RecordInput `json:"records"`
	}

	LockAttendanceRequest struct {
		Date string `json:"date"`
	}
)

func (r SaveAttendanceRequest) SaveRecords() (attendance.SaveRecords, error) {
	date, err := parseDate(r.Date, "date")
	if err != nil {
		return attendance.SaveRecords{}, err
	}
	return attendance.SaveRecords{Date: date, Records: r.Records}, nil
}
