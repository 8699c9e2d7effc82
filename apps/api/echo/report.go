package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/core/teacher"
)

type reportApi struct {
	svc        *report.Service
	teacherSvc *teacher.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *report.Service, teacherSvc *teacher.Service) {
	api := reportApi{svc: svc, teacherSvc: teacherSvc}

	cg := g.Group("/classes/:id/reports", jwt)
	cg.POST("", api.generate)
	cg.GET("", api.queryByClass)

	sg := g.Group("/students/:id/reports", jwt)
	sg.GET("", api.queryByStudent)

	rg := g.Group("/reports", jwt)
	rg.GET("/:id", api.retrieve)
	rg.POST("/:id/share", api.share)
	rg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *reportApi) generate(ctx echo.Context) error {
	var data GenerateReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateReportRequest")
	}
	gr, err := data.GenerateReport()
	if err != nil {
		return err
	}

	tchr, err := getContextTeacher(ctx, api.teacherSvc)
	if err != nil {
		return err
	}
	rpt, err := api.svc.Generate(ctx.Request().Context(), ctx.Param("id"), tchr, gr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rpt)
}

func (api *reportApi) queryByClass(ctx echo.Context) error {
	reports, err := api.svc.ForClass(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying class reports")
	}
	if reports == nil {
		reports = []report.Report{}
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *reportApi) queryByStudent(ctx echo.Context) error {
	reports, err := api.svc.ForStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying student reports")
	}
	if reports == nil {
		reports = []report.Report{}
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *reportApi) retrieve(ctx echo.Context) error {
	rpt, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rpt)
}

func (api *reportApi) share(ctx echo.Context) error {
	var data report.ShareReport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ShareReport")
	}

	rpt, err := api.svc.Share(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rpt)
}

func (api *reportApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting report")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type GenerateReportRequest struct {
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Type      report.Type `json:"report_type"`
	StudentID string      `json:"student_id"`
}

func (r GenerateReportRequest) GenerateReport() (report.GenerateReport, error) {
	start, err := parseDate(r.StartDate, "start_date")
	if err != nil {
		return report.GenerateReport{}, err
	}
	end, err := parseDate(r.EndDate, "end_date")
	if err != nil {
		return report.GenerateReport{}, err
	}
	return report.GenerateReport{
		StartDate: start,
		EndDate:   end,
		Type:      r.Type,
		StudentID: r.StudentID,
	}, nil
}
