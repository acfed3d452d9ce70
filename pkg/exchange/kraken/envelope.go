package kraken

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"krakensweep/pkg/core"
)

// ErrNoBalance is returned when the exchange reported no error and no balance map.
var ErrNoBalance = errors.New("no balance returned")

// ErrMissingErrorList is returned for a body without the "error" array.
var ErrMissingErrorList = errors.New(`envelope has no "error" list`)

// Envelope is the shape of every private Kraken response.
type Envelope[T any] struct {
	Error  []string `json:"error"`
	Result T        `json:"result"`
}

// wireEnvelope tells an absent or null "error" apart from an empty list.
type wireEnvelope[T any] struct {
	Error  *[]string `json:"error"`
	Result T         `json:"result"`
}

func decodeEnvelope[T any](body []byte) (*Envelope[T], error) {
	var wire wireEnvelope[T]
	if err := sonic.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if wire.Error == nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", ErrMissingErrorList)
	}
	return &Envelope[T]{Error: *wire.Error, Result: wire.Result}, nil
}

// addOrderResult is what an AddOrder result yields. Kraken nests the order
// summary under descr.order and lists txids; flat string values are also
// accepted. Neither field is required.
type addOrderResult struct {
	Description string
	TxIDs       []string
}

func newAddOrderResult(raw map[string]any) *addOrderResult {
	if raw == nil {
		return nil
	}

	res := &addOrderResult{}
	switch descr := raw["descr"].(type) {
	case string:
		res.Description = descr
	case map[string]any:
		res.Description, _ = descr["order"].(string)
	}

	switch txid := raw["txid"].(type) {
	case string:
		if txid != "" {
			res.TxIDs = []string{txid}
		}
	case []any:
		for _, v := range txid {
			if id, ok := v.(string); ok && id != "" {
				res.TxIDs = append(res.TxIDs, id)
			}
		}
	}
	return res
}

// mapKrakenError turns a non-empty error list into an ExchangeError. The
// first message decides the type and code; all messages are kept.
func mapKrakenError(statusCode int, messages []string) *core.ExchangeError {
	first := messages[0]
	code, _, _ := strings.Cut(first, ":")

	excErr := core.NewExchangeErrorWithCode(
		exchangeName,
		classifyKrakenError(first),
		statusCode,
		code,
		strings.Join(messages, "; "),
	)
	excErr.RawError = messages
	return excErr
}

func classifyKrakenError(msg string) core.ErrorType {
	switch {
	case strings.HasPrefix(msg, "EAPI:Invalid key"),
		strings.HasPrefix(msg, "EAPI:Invalid signature"),
		strings.HasPrefix(msg, "EAPI:Invalid nonce"),
		strings.HasPrefix(msg, "EGeneral:Permission denied"):
		return core.ErrorTypeAuthentication
	case strings.HasSuffix(msg, ":Rate limit exceeded"),
		strings.HasPrefix(msg, "EGeneral:Too many requests"),
		strings.HasPrefix(msg, "EAPI:Rate limit exceeded"):
		return core.ErrorTypeRateLimit
	case strings.HasPrefix(msg, "EOrder:Insufficient funds"):
		return core.ErrorTypeInsufficientFunds
	case strings.HasPrefix(msg, "EGeneral:Invalid arguments"),
		strings.HasPrefix(msg, "EQuery:Unknown asset pair"),
		strings.HasPrefix(msg, "EAPI:Bad request"):
		return core.ErrorTypeBadRequest
	case strings.HasPrefix(msg, "EGeneral:Unknown method"):
		return core.ErrorTypeNotFound
	case strings.HasPrefix(msg, "EService:"),
		strings.HasPrefix(msg, "EGeneral:Internal error"):
		return core.ErrorTypeServerError
	case strings.HasPrefix(msg, "EOrder:"):
		return core.ErrorTypeInvalidOrder
	default:
		return core.ErrorTypeUnknown
	}
}
