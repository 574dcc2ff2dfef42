package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/envelope"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
	"github.com/jsamuelsen/metadata-access-client/internal/platform/logging"
)

// ContextKeyOperation is the gin context key holding the operation name of
// the matched route.
const ContextKeyOperation = "operation"

// Operation returns middleware that records the operation served by a route.
// Failures raised further down the chain are attributed to it.
func Operation(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyOperation, name)
		c.Request = c.Request.WithContext(logging.WithOperation(c.Request.Context(), name))
		c.Next()
	}
}

// GetOperation returns the operation recorded for the request, or the
// request path when no route recorded one.
func GetOperation(c *gin.Context) string {
	if op := c.GetString(ContextKeyOperation); op != "" {
		return op
	}

	return c.Request.URL.Path
}

// AbortWithFailure aborts the chain and writes f as a response envelope
// whose status is the failure's status.
func AbortWithFailure(c *gin.Context, f domain.TypedFailure) {
	if c.Writer.Written() {
		c.Abort()
		return
	}

	env := envelope.FromFailure(f)
	c.AbortWithStatusJSON(env.RelatedHTTPCode, env)
}

// RespondWithError writes err as a failure envelope. Errors outside the
// failure taxonomy are logged and reported as property server failures.
func RespondWithError(c *gin.Context, err error) {
	f, ok := domain.AsTypedFailure(err)
	if !ok {
		var traceID string
		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
			traceID = span.SpanContext().TraceID().String()
		}

		logging.FromContext(c.Request.Context()).Error("internal error",
			slog.String("operation", GetOperation(c)),
			slog.String("error", err.Error()),
			slog.String("trace_id", traceID),
		)

		f = domain.NewPropertyServerError(domain.CodeUnexpectedServerFailure, GetOperation(c), err, err.Error())
	}

	AbortWithFailure(c, f)
}
