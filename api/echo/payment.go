package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tuitionhub/backend/core/payment"
)

type paymentApi struct {
	opts *Options
}

func registerPaymentAPI(app *echo.Echo, jwt echo.MiddlewareFunc, opts *Options) {
	api := paymentApi{opts: opts}

	app.POST("/create-checkout-session", api.createCheckoutSession)
	app.POST("/payment-success", api.paymentSuccess)
	app.GET("/payment", api.query, jwt)
}

func (api *paymentApi) createCheckoutSession(ctx echo.Context) error {
	var data payment.CheckoutInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CheckoutInput")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	url, err := api.opts.PaymentSvc.StartCheckout(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "starting checkout")
	}
	return ctx.JSON(http.StatusOK, CheckoutSessionResponse{URL: url})
}

// paymentSuccess triggers reconciliation for a completed checkout session.
// Safe to call repeatedly with the same session: the payment record is keyed
// by the processor's transaction identifier.
func (api *paymentApi) paymentSuccess(ctx echo.Context) error {
	var data payment.ReconcileInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReconcileInput")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	if err := api.opts.PaymentSvc.Reconcile(ctx.Request().Context(), data.SessionID); err != nil {
		return errors.Wrap(err, "reconciling payment")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (api *paymentApi) query(ctx echo.Context) error {
	payments, err := api.opts.PaymentSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

type (
	CheckoutSessionResponse struct {
		URL string `json:"url"`
	}

	SuccessResponse struct {
		Success bool `json:"success"`
	}
)
