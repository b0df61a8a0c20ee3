package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tuitionhub/backend/core/tuition"
)

type tuitionApi struct {
	opts *Options
}

func registerTuitionAPI(app *echo.Echo, opts *Options) {
	api := tuitionApi{opts: opts}

	app.POST("/tuition", api.create)
	app.GET("/tuition", api.query)
	app.PATCH("/tuition/:id", api.updateStatus)
	app.DELETE("/tuition/:id", api.destroy)
	app.GET("/tuitions/tutor/approved/:tutorId", api.queryApprovedByTutor)
}

func (api *tuitionApi) create(ctx echo.Context) error {
	var data tuition.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	req, err := api.opts.TuitionSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating tuition request")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *tuitionApi) query(ctx echo.Context) error {
	reqs, err := api.opts.TuitionSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying tuition requests")
	}
	if reqs == nil {
		reqs = []tuition.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

// updateStatus applies an admin decision and returns the updated document.
func (api *tuitionApi) updateStatus(ctx echo.Context) error {
	var data tuition.UpdateStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStatus")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	req, err := api.opts.TuitionSvc.UpdateStatus(ctx.Request().Context(), ctx.Param("id"), data.Status)
	if err != nil {
		return errors.Wrap(err, "updating tuition request status")
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *tuitionApi) destroy(ctx echo.Context) error {
	if err := api.opts.TuitionSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting tuition request")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *tuitionApi) queryApprovedByTutor(ctx echo.Context) error {
	reqs, err := api.opts.TuitionSvc.QueryApprovedByTutor(ctx.Request().Context(), ctx.Param("tutorId"))
	if err != nil {
		return errors.Wrap(err, "querying approved tuition requests")
	}
	if reqs == nil {
		reqs = []tuition.Request{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}
