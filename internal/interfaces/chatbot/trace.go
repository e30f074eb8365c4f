package chatbot

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var chatTracer = otel.Tracer("faceit-hub-bot/internal/interfaces/chatbot")

func startCommandSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return chatTracer.Start(ctx, "chatbot.Dispatcher."+name)
}
