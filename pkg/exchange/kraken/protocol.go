package kraken

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"resty.dev/v3"

	"krakensweep/internal/nonce"
	"krakensweep/pkg/core"
)

const (
	exchangeName = "kraken"

	ProductionURL = core.DefaultBaseURL
	BalancePath   = "/0/private/Balance"
	AddOrderPath  = "/0/private/AddOrder"
)

// NonceFunc issues the nonce for the next private call. It must be strictly
// increasing for a given API key.
type NonceFunc func() int64

// Protocol implements core.Protocol for Kraken's private REST API.
type Protocol struct {
	nonce      NonceFunc
	normalizer *Normalizer
}

// NewProtocol creates a protocol drawing nonces from fn. A nil fn uses a
// private millisecond source.
func NewProtocol(fn NonceFunc) *Protocol {
	if fn == nil {
		src := nonce.New()
		fn = func() int64 { return src.Next("") }
	}
	return &Protocol{
		nonce:      fn,
		normalizer: NewNormalizer(),
	}
}

func (p *Protocol) Name() string {
	return exchangeName
}

func (p *Protocol) Version() string {
	return "0"
}

func (p *Protocol) BaseURL() string {
	return ProductionURL
}

func (p *Protocol) SupportedOperations() []core.Operation {
	return []core.Operation{
		core.OpGetBalance,
		core.OpPlaceOrder,
	}
}

// RateLimits approximates the starter-tier call counter: 15 points
// decaying at one point every three seconds.
func (p *Protocol) RateLimits() core.RateLimitConfig {
	return core.RateLimitConfig{
		Requests: 15,
		Period:   45 * time.Second,
	}
}

func (p *Protocol) BuildRequest(ctx context.Context, op core.Operation, params core.Params) (*core.Request, error) {
	switch op {
	case core.OpGetBalance:
		return p.buildGetBalanceRequest()
	case core.OpPlaceOrder:
		return p.buildPlaceOrderRequest(params)
	default:
		return nil, core.NewExchangeError(exchangeName, core.ErrorTypeBadRequest, 0,
			fmt.Sprintf("unsupported operation: %s", op)).
			WithCode(core.ErrCodeUnsupported).
			WithCause(core.ErrUnsupported)
	}
}

func (p *Protocol) buildGetBalanceRequest() (*core.Request, error) {
	n := strconv.FormatInt(p.nonce(), 10)

	req := core.NewFormRequest(BalancePath, "nonce="+n)
	req.SetNonce(n)
	req.SetRequireAuth(true)
	req.SetWeight(1)

	return req, nil
}

// buildPlaceOrderRequest only knows market sells. The body fields are
// written in a fixed order and the same string is signed and sent.
func (p *Protocol) buildPlaceOrderRequest(params core.Params) (*core.Request, error) {
	side, err := getRequiredStringParam(params, "side")
	if err != nil {
		return nil, err
	}
	orderType, err := getRequiredStringParam(params, "type")
	if err != nil {
		return nil, err
	}
	if side != core.SideSell.String() || orderType != core.TypeMarket.String() {
		return nil, core.NewExchangeError(exchangeName, core.ErrorTypeBadRequest, 0,
			fmt.Sprintf("unsupported order: %s %s", orderType, side)).
			WithCode(core.ErrCodeUnsupported).
			WithCause(core.ErrUnsupported)
	}

	pair, err := getRequiredFormParam(params, "pair")
	if err != nil {
		return nil, err
	}
	volume, err := getRequiredFormParam(params, "volume")
	if err != nil {
		return nil, err
	}

	n := strconv.FormatInt(p.nonce(), 10)
	body := "nonce=" + n + "&ordertype=market&type=sell&volume=" + volume + "&pair=" + pair
	if validate, _ := params["validate"].(bool); validate {
		body += "&validate=true"
	}

	req := core.NewFormRequest(AddOrderPath, body)
	req.SetNonce(n)
	req.SetRequireAuth(true)
	// AddOrder is metered by the trading counter, not the REST call counter.
	req.SetWeight(0)

	return req, nil
}

// SignRequest sets API-Key and API-Sign over the request exactly as built.
func (p *Protocol) SignRequest(req *core.Request, creds core.Credentials) error {
	if creds.APIKey == "" {
		return fmt.Errorf("%w: api key is required for signing", core.ErrInvalidCredentials)
	}
	if req.Nonce == "" {
		return fmt.Errorf("request %s has no nonce", req.Path)
	}

	signature, err := Sign(creds.SecretKey, req.Nonce, req.Path, req.Body)
	if err != nil {
		return err
	}

	req.SetHeader("API-Key", creds.APIKey)
	req.SetHeader("API-Sign", signature)
	return nil
}

// ParseResponse decodes the envelope of a 2xx response. For balances it
// returns map[string]string; for orders a *core.Order carrying only what
// the exchange reported.
func (p *Protocol) ParseResponse(op core.Operation, resp *resty.Response) (any, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil response")
	}
	return p.parseBody(op, resp.StatusCode(), resp.Bytes())
}

func (p *Protocol) parseBody(op core.Operation, statusCode int, body []byte) (any, error) {
	switch op {
	case core.OpGetBalance:
		env, err := decodeEnvelope[map[string]string](body)
		if err != nil {
			return nil, err
		}
		if len(env.Error) > 0 {
			return nil, mapKrakenError(statusCode, env.Error)
		}
		if env.Result == nil {
			return nil, ErrNoBalance
		}
		return env.Result, nil

	case core.OpPlaceOrder:
		env, err := decodeEnvelope[map[string]any](body)
		if err != nil {
			return nil, err
		}
		if len(env.Error) > 0 {
			return nil, mapKrakenError(statusCode, env.Error)
		}
		return p.normalizer.NormalizeOrder(newAddOrderResult(env.Result)), nil

	default:
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}
}

func getRequiredStringParam(params core.Params, key string) (string, error) {
	val, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string", key)
	}

	if str == "" {
		return "", fmt.Errorf("parameter %s cannot be empty", key)
	}

	return str, nil
}

// getRequiredFormParam also rejects values that would change meaning inside
// an unescaped form body.
func getRequiredFormParam(params core.Params, key string) (string, error) {
	str, err := getRequiredStringParam(params, key)
	if err != nil {
		return "", err
	}
	if url.QueryEscape(str) != str {
		return "", fmt.Errorf("parameter %s contains characters not allowed in a form body: %q", key, str)
	}
	return str, nil
}
