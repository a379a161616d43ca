// Package obstrace provides OpenTelemetry tracing helpers (tracer setup,
// span start, error recording), grounded in the teacher's pkg/otelhelper
// package. The scheduler, dispatcher and interpreter do not call these
// helpers, so the engine emits no spans.
package obstrace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otlptracehttp "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared across spans.
const (
	WorkflowIDKey  = attribute.Key("engine.workflow.id")
	RunIDKey       = attribute.Key("engine.run.id")
	JobIDKey       = attribute.Key("engine.job.id")
	TriggerTypeKey = attribute.Key("engine.trigger.type")
	StepIDKey      = attribute.Key("engine.step.id")
	ActionIDKey    = attribute.Key("engine.action.id")
	AppKey         = attribute.Key("engine.app")
)

// NewTracer configures a batching OTLP/HTTP exporter and returns a tracer
// for serviceName. Call the returned shutdown func on process exit.
func NewTracer(ctx context.Context, serviceName string) (trace.Tracer, func(context.Context) error, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, nil, err
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}))

	return tp.Tracer(serviceName), tp.Shutdown, nil
}

// StartSpan starts a span with the given attributes.
//
//nolint:ireturn
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// SetError records err on span and marks it as failed.
func SetError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
