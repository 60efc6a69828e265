package tracing

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/vaitahavya/morandi-sub002/internal/tracing"

// Middleware opens a server span per request and stores it in the user context,
// so service spans started from c.UserContext() become its children.
func Middleware() fiber.Handler {
	tracer := otel.Tracer(instrumentationName)

	return func(c *fiber.Ctx) error {
		ctx, span := tracer.Start(c.UserContext(), c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethodKey.String(c.Method()),
				semconv.HTTPTargetKey.String(string(c.Request().RequestURI())),
			),
		)
		defer span.End()

		c.SetUserContext(ctx)
		err := c.Next()

		// Route is only known after routing
		if route := c.Route().Path; route != "" {
			span.SetName(c.Method() + " " + route)
			span.SetAttributes(semconv.HTTPRouteKey.String(route))
		}

		status := c.Response().StatusCode()
		span.SetAttributes(
			semconv.HTTPStatusCodeKey.Int(status),
			attribute.String("http.request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		)
		if err != nil {
			span.RecordError(err)
		}
		if status >= fiber.StatusInternalServerError || err != nil {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
		return err
	}
}
