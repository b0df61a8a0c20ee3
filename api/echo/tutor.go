package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tuitionhub/backend/core/tutor"
)

type tutorApi struct {
	opts *Options
}

func registerTutorAPI(app *echo.Echo, opts *Options) {
	api := tutorApi{opts: opts}

	app.POST("/tutor", api.create)
	app.GET("/tutor", api.query)
	app.GET("/tutor/:id", api.retrieve)
	app.PATCH("/tutor/:id", api.update)
	app.DELETE("/tutor/:id", api.destroy)
}

func (api *tutorApi) create(ctx echo.Context) error {
	var data tutor.NewTutor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTutor")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	t, err := api.opts.TutorSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating tutor")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *tutorApi) query(ctx echo.Context) error {
	tutors, err := api.opts.TutorSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying tutors")
	}
	if tutors == nil {
		tutors = []tutor.Tutor{}
	}
	return ctx.JSON(http.StatusOK, tutors)
}

func (api *tutorApi) retrieve(ctx echo.Context) error {
	t, err := api.opts.TutorSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding tutor by id")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *tutorApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	orig, err := api.opts.TutorSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding tutor by id")
	}

	var data tutor.UpdateTutor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTutor")
	}
	if err := data.Validate(orig, api.opts.Validate); err != nil {
		return err
	}

	t, err := api.opts.TutorSvc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "updating tutor")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *tutorApi) destroy(ctx echo.Context) error {
	if err := api.opts.TutorSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting tutor")
	}
	return ctx.NoContent(http.StatusNoContent)
}
