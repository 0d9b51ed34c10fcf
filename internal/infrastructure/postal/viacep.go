// Package postal resolves Brazilian postal codes (CEP) to destinations.
package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/shipping"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from ViaCEP (64KB)
const maxResponseSize = 64 * 1024

// ViaCEPProductionURL is the public ViaCEP endpoint
const ViaCEPProductionURL = "https://viacep.com.br"

// ViaCEPConfig holds configuration for the ViaCEP client
type ViaCEPConfig struct {
	// BaseURL is scheme and host, without the /ws path
	BaseURL string
	// Timeout bounds a single HTTP request
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failures that open the circuit
	BreakerFailures uint32
	// BreakerOpenFor is how long the circuit stays open before probing again
	BreakerOpenFor time.Duration
}

// DefaultViaCEPConfig returns the production configuration
func DefaultViaCEPConfig() ViaCEPConfig {
	return ViaCEPConfig{
		BaseURL:         ViaCEPProductionURL,
		Timeout:         3 * time.Second,
		BreakerFailures: 5,
		BreakerOpenFor:  30 * time.Second,
	}
}

// viaCEPResponse is the JSON document returned by /ws/{cep}/json/
type viaCEPResponse struct {
	CEP         string   `json:"cep"`
	Logradouro  string   `json:"logradouro"`
	Complemento string   `json:"complemento"`
	Bairro      string   `json:"bairro"`
	Localidade  string   `json:"localidade"`
	UF          string   `json:"uf"`
	IBGE        string   `json:"ibge"`
	Erro        flexBool `json:"erro"`
}

// flexBool accepts both true and "true"; ViaCEP has used both.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*b = flexBool(strings.EqualFold(s, "true"))
	return nil
}

// ViaCEPClient implements shipping.PostalLookup on top of the ViaCEP web service.
// Calls go through a circuit breaker: after BreakerFailures consecutive
// transport failures lookups fail fast for BreakerOpenFor.
type ViaCEPClient struct {
	config     ViaCEPConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*shipping.Destination]
	logger     *zap.Logger
}

// NewViaCEPClient creates a new ViaCEP client with the given configuration
func NewViaCEPClient(config ViaCEPConfig, logger *zap.Logger) *ViaCEPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.BaseURL == "" {
		config.BaseURL = ViaCEPProductionURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	c := &ViaCEPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[*shipping.Destination](gobreaker.Settings{
		Name:        "viacep",
		MaxRequests: 1,
		Timeout:     config.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.BreakerFailures
		},
		// only directory outages count against the breaker
		IsSuccessful: func(err error) bool {
			return err == nil || shared.KindOf(err) != shared.KindExternal
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Postal lookup circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

// Resolve looks code up in ViaCEP.
//
// Errors: shared.ErrUnknownDestination when ViaCEP reports the code does not
// exist, shared.ErrPostalLookupFailed (kind EXTERNAL) for transport errors,
// unexpected status codes, malformed bodies and an open circuit.
func (c *ViaCEPClient) Resolve(ctx context.Context, code valueobject.PostalCode) (*shipping.Destination, error) {
	ctx, span := telemetry.StartSpan(ctx, "postal.resolve",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrPostalCode, code.Digits()),
	)
	defer span.End()

	dest, err := c.breaker.Execute(func() (*shipping.Destination, error) {
		return c.fetch(ctx, code)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = shared.ErrPostalLookupFailed.
			WithMessage("Postal directory is temporarily unavailable").
			Wrap(err)
	}
	if shared.KindOf(err) == shared.KindExternal {
		telemetry.RecordError(span, err)
	}
	if err != nil {
		return nil, err
	}
	return dest, nil
}

// State returns the current circuit breaker state
func (c *ViaCEPClient) State() gobreaker.State {
	return c.breaker.State()
}

func (c *ViaCEPClient) fetch(ctx context.Context, code valueobject.PostalCode) (*shipping.Destination, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.config.BaseURL, code.Digits())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, shared.ErrPostalLookupFailed.Wrap(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, shared.ErrPostalLookupFailed.Wrap(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, shared.ErrPostalLookupFailed.Wrap(err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, shared.ErrInvalidDestination.WithSubject(code.Digits())
	case resp.StatusCode != http.StatusOK:
		return nil, shared.ErrPostalLookupFailed.Wrap(fmt.Errorf("viacep: HTTP %d", resp.StatusCode))
	}

	var payload viaCEPResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, shared.ErrPostalLookupFailed.Wrap(fmt.Errorf("viacep: malformed response: %w", err))
	}
	if payload.Erro {
		return nil, shared.ErrUnknownDestination.WithSubject(code.Digits())
	}
	if payload.Localidade == "" || payload.UF == "" {
		return nil, shared.ErrPostalLookupFailed.Wrap(errors.New("viacep: response without city or state"))
	}

	return &shipping.Destination{
		PostalCode: code,
		Street:     payload.Logradouro,
		District:   payload.Bairro,
		City:       payload.Localidade,
		State:      strings.ToUpper(payload.UF),
		IBGECode:   payload.IBGE,
	}, nil
}

// Ensure ViaCEPClient implements shipping.PostalLookup
var _ shipping.PostalLookup = (*ViaCEPClient)(nil)
