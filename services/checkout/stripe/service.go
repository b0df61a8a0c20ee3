package stripecheckout

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"github.com/tuitionhub/backend/core"
	"github.com/tuitionhub/backend/core/payment"
)

// service drives Stripe Checkout: a hosted single-item payment page in USD.
type service struct {
	api *client.API
}

var _ payment.CheckoutService = (*service)(nil)

func NewService(conf *core.Config) payment.CheckoutService {
	return &service{api: client.New(conf.Stripe.SecretKey, nil)}
}

func (svc *service) CreateSession(ctx context.Context, params payment.CreateSessionParams) (string, error) {
	p := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.ProductName),
					},
					UnitAmount: stripe.Int64(params.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(params.CustomerEmail),
		SuccessURL:    stripe.String(params.SuccessURL),
		CancelURL:     stripe.String(params.CancelURL),
	}
	p.Params.Context = ctx
	for k, v := range params.Metadata {
		p.AddMetadata(k, v)
	}

	sess, err := svc.api.CheckoutSessions.New(p)
	if err != nil {
		return "", errors.WithMessage(payment.ErrSessionCreationFailed, err.Error())
	}
	return sess.URL, nil
}

func (svc *service) RetrieveSession(ctx context.Context, sessionID string) (payment.CheckoutSession, error) {
	p := &stripe.CheckoutSessionParams{}
	p.Params.Context = ctx

	sess, err := svc.api.CheckoutSessions.Get(sessionID, p)
	if err != nil {
		var sErr *stripe.Error
		if errors.As(err, &sErr) && (sErr.Code == stripe.ErrorCodeResourceMissing || sErr.HTTPStatusCode == http.StatusNotFound) {
			return payment.CheckoutSession{}, payment.ErrSessionNotFound
		}
		return payment.CheckoutSession{}, errors.Wrap(err, "retrieving stripe checkout session")
	}

	out := payment.CheckoutSession{
		ID:            sess.ID,
		CustomerEmail: sess.CustomerEmail,
		AmountTotal:   sess.AmountTotal,
		Metadata:      sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	return out, nil
}
