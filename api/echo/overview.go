package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type overviewApi struct {
	opts *Options
}

func registerOverviewAPI(app *echo.Echo, jwt echo.MiddlewareFunc, opts *Options) {
	api := overviewApi{opts: opts}
	app.GET("/Overview", api.overview, jwt)
}

// overview aggregates platform counts; total revenue is only disclosed to
// admins.
func (api *overviewApi) overview(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	reqCtx := ctx.Request().Context()
	resp := OverviewResponse{}

	if resp.Users, err = api.opts.UserSvc.Count(reqCtx); err != nil {
		return errors.Wrap(err, "counting users")
	}
	if resp.Tutors, err = api.opts.TutorSvc.Count(reqCtx); err != nil {
		return errors.Wrap(err, "counting tutors")
	}
	if resp.TuitionRequests, err = api.opts.TuitionSvc.Count(reqCtx); err != nil {
		return errors.Wrap(err, "counting tuition requests")
	}
	if resp.Payments, err = api.opts.PaymentSvc.Count(reqCtx); err != nil {
		return errors.Wrap(err, "counting payments")
	}

	if usr.IsAdmin() {
		revenue, err := api.opts.PaymentSvc.TotalRevenue(reqCtx)
		if err != nil {
			return errors.Wrap(err, "summing revenue")
		}
		resp.Revenue = &revenue
	}
	return ctx.JSON(http.StatusOK, resp)
}

type OverviewResponse struct {
	Users           int      `json:"users"`
	Tutors          int      `json:"tutors"`
	TuitionRequests int      `json:"tuition_requests"`
	Payments        int      `json:"payments"`
	Revenue         *float64 `json:"revenue,omitempty"`
}
