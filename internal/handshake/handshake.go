// Package handshake drives the two-leg OAuth authorization-code flow:
// initiate against the backend, send the user to the provider, capture the
// redirect, and exchange the code for a session.
package handshake

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/critiq-dev/critiq-cli/internal/api"
)

// Outcome classifies what a provider redirect carried.
type Outcome int

const (
	// OutcomeCode means an authorization code is present and exchangeable.
	OutcomeCode Outcome = iota
	// OutcomeDenied means the provider reported an error. No exchange is
	// attempted; error takes precedence even when a code is also present.
	OutcomeDenied
	// OutcomeMissingCode means the redirect carried neither code nor error.
	OutcomeMissingCode
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDenied:
		return "denied"
	case OutcomeMissingCode:
		return "missing_code"
	default:
		return "code"
	}
}

// Callback is the transient state captured from one provider redirect.
// It is consumed exactly once by Complete and never persisted.
type Callback struct {
	Outcome       Outcome
	Code          string
	State         string
	ProviderError string
}

// ParseCallback interprets the query parameters of a provider redirect.
func ParseCallback(query url.Values) Callback {
	if errParam := query.Get("error"); errParam != "" {
		return Callback{Outcome: OutcomeDenied, ProviderError: errParam}
	}
	code := query.Get("code")
	if code == "" {
		return Callback{Outcome: OutcomeMissingCode}
	}
	return Callback{Outcome: OutcomeCode, Code: code, State: query.Get("state")}
}

// ErrDenied is returned when the provider refused authorization.
var ErrDenied = errors.New("authorization denied by the provider")

// ErrMissingCode is returned for a malformed redirect with no code.
var ErrMissingCode = errors.New("redirect carried no authorization code")

// Gateway is the slice of the backend client the handshake needs.
type Gateway interface {
	InitiateOAuth(ctx context.Context) (string, error)
	ExchangeCode(ctx context.Context, code, state string) (*api.Token, error)
}

// LoginSink receives the result of a successful exchange. Satisfied by
// session.Manager.
type LoginSink interface {
	Login(token, scheme string, user api.User) error
}

// Controller orchestrates the flow and hands the result to the session.
type Controller struct {
	gateway Gateway
	session LoginSink
}

// NewController creates a handshake controller.
func NewController(gateway Gateway, session LoginSink) *Controller {
	return &Controller{gateway: gateway, session: session}
}

// Initiate returns the provider authorization URL to send the user to.
// On failure the caller stays where it is and may retry.
func (c *Controller) Initiate(ctx context.Context) (string, error) {
	return c.gateway.InitiateOAuth(ctx)
}

// Complete consumes one captured callback. Denied and missing-code outcomes
// fail without touching the backend. An exchange failure surfaces the
// backend's message verbatim when present; a replayed single-use code fails
// here like any other rejection. On success the session receives the new
// credential and identity.
func (c *Controller) Complete(ctx context.Context, cb Callback) (*api.User, error) {
	switch cb.Outcome {
	case OutcomeDenied:
		return nil, fmt.Errorf("%w (%s)", ErrDenied, cb.ProviderError)
	case OutcomeMissingCode:
		return nil, ErrMissingCode
	}

	token, err := c.gateway.ExchangeCode(ctx, cb.Code, cb.State)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			return nil, fmt.Errorf("authentication failed: %s", apiErr.Detail)
		}
		return nil, fmt.Errorf("authentication failed")
	}

	if err := c.session.Login(token.AccessToken, token.TokenType, token.User); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	return &token.User, nil
}
