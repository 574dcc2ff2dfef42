package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/clients"
	"github.com/jsamuelsen/metadata-access-client/internal/adapters/envelope"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
	"github.com/jsamuelsen/metadata-access-client/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/metadata-access-client/internal/adapters/clients/acl"

// Caller issues one envelope-protocol call against the metadata server.
// Embed it in operation-specific adapters.
type Caller struct {
	client      *clients.Client
	serviceName string
	logger      *slog.Logger

	callDuration metric.Float64Histogram
	callTotal    metric.Int64Counter
}

// NewCaller creates a caller on top of client. The service name identifies
// the metadata server in logs and metrics.
func NewCaller(client *clients.Client, serviceName string, logger *slog.Logger) (*Caller, error) {
	if logger == nil {
		logger = slog.Default()
	}

	meter := otel.Meter(instrumentationName)

	callDuration, err := meter.Float64Histogram(
		"metadata.client.call.duration",
		metric.WithDescription("Duration of metadata server calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating call duration metric: %w", err)
	}

	callTotal, err := meter.Int64Counter(
		"metadata.client.call.total",
		metric.WithDescription("Total number of metadata server calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating call counter: %w", err)
	}

	return &Caller{
		client:       client,
		serviceName:  serviceName,
		logger:       logger,
		callDuration: callDuration,
		callTotal:    callTotal,
	}, nil
}

// Client returns the underlying HTTP client.
func (c *Caller) Client() *clients.Client {
	return c.client
}

// ServiceName returns the name of the metadata server.
func (c *Caller) ServiceName() string {
	return c.serviceName
}

// Endpoint returns the absolute URL urlTemplate resolves to for params.
// Failures name this URL so the configured platform is visible to callers.
func (c *Caller) Endpoint(urlTemplate string, params ...any) string {
	return c.client.BaseURL() + FillTemplate(urlTemplate, params...)
}

// Call fills urlTemplate with params and sends the request: GET when body is
// nil, POST with body as JSON otherwise. The returned envelope may carry a
// failure tag; decoding it is left to the caller. Faults that leave no
// envelope to decode are returned as a PropertyServerError.
func (c *Caller) Call(
	ctx context.Context, operation, urlTemplate string, params []any, body any,
) (*envelope.ResponseEnvelope, error) {
	start := time.Now()
	endpoint := FillTemplate(urlTemplate, params...)

	env, err := c.call(ctx, operation, endpoint, body)

	result, kind := "success", ""
	switch {
	case err != nil:
		result, kind = "transport_fault", string(domain.KindPropertyServerFailure)
	case env.Failed():
		result, kind = "failure", env.ExceptionClassName
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("peer.service", c.serviceName),
		attribute.String("result", result),
		attribute.String("failure.kind", kind),
	)
	c.callDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	c.callTotal.Add(ctx, 1, attrs)

	return env, err
}

func (c *Caller) call(
	ctx context.Context, operation, endpoint string, body any,
) (*envelope.ResponseEnvelope, error) {
	remote := c.client.BaseURL() + endpoint
	logger := c.logger.With(slog.String("operation", operation), slog.String("endpoint", remote))
	ctx = logging.WithOperation(ctx, operation)

	var (
		resp *http.Response
		err  error
	)

	if body == nil {
		logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("method", http.MethodGet))
		resp, err = c.client.Get(ctx, endpoint)
	} else {
		payload, merr := json.Marshal(body)
		if merr != nil {
			return nil, transportFailure(operation, remote, fmt.Errorf("encoding request body: %w", merr))
		}

		logger.Log(ctx, logging.LevelTrace, "starting request",
			slog.String("method", http.MethodPost),
			slog.String("body", string(payload)))
		resp, err = c.client.Post(ctx, endpoint, bytes.NewReader(payload))
	}

	if err != nil {
		return nil, transportFailure(operation, remote, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportFailure(operation, remote, fmt.Errorf("reading response body: %w", err))
	}

	logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(raw)))

	env, err := envelope.Parse(raw, operation)
	if err != nil {
		logger.Warn("response is not an envelope", slog.Int("status", resp.StatusCode), slog.Any("error", err))

		return nil, unexpectedResponse(operation, remote, resp.StatusCode, err.Error())
	}

	if resp.StatusCode >= http.StatusBadRequest && !env.Failed() {
		return nil, unexpectedResponse(operation, remote, resp.StatusCode,
			fmt.Sprintf("HTTP %d without a failure tag", resp.StatusCode))
	}

	return env, nil
}

// Invoke runs Call, decodes any failure in the envelope, narrows it to the
// expected variants, and otherwise decodes the payload into T.
func Invoke[T any](
	ctx context.Context,
	caller *Caller,
	operation, urlTemplate string,
	params []any,
	body any,
	expected ...domain.FailureKind,
) (*T, error) {
	env, err := caller.Call(ctx, operation, urlTemplate, params, body)
	if err != nil {
		return nil, err
	}

	if f := envelope.Decode(env); f != nil {
		return nil, Narrow(f, expected...)
	}

	payload, err := envelope.DecodePayload[T](env)
	if err != nil {
		return nil, unexpectedResponse(operation, caller.Endpoint(urlTemplate, params...), 0, err.Error())
	}

	return payload, nil
}

// FillTemplate replaces {0}, {1}, ... in template with params in order.
// Values in the path are path-escaped; values after '?' are query-escaped.
func FillTemplate(template string, params ...any) string {
	path, query, hasQuery := strings.Cut(template, "?")

	path = fill(path, url.PathEscape, params)
	if !hasQuery {
		return path
	}

	return path + "?" + fill(query, url.QueryEscape, params)
}

func fill(s string, escape func(string) string, params []any) string {
	for i, p := range params {
		slot := "{" + fmt.Sprint(i) + "}"
		if strings.Contains(s, slot) {
			s = strings.ReplaceAll(s, slot, escape(fmt.Sprint(p)))
		}
	}

	return s
}

// Translator is a function type that translates an external DTO to a domain type.
type Translator[External any, Domain any] func(ext *External) *Domain

// TranslateSlice applies a translator function to a slice of external DTOs.
func TranslateSlice[E any, D any](items []E, translate Translator[E, D]) []*D {
	result := make([]*D, 0, len(items))

	for i := range items {
		result = append(result, translate(&items[i]))
	}

	return result
}
