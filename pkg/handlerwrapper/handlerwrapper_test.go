package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/palette-forge/pkg/eventbus"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type ping struct {
	Name string `json:"name"`
}

type pong struct {
	Greeting string `json:"greeting"`
}

func wrap(handler func(context.Context, *ping) ([]Result, error)) message.HandlerFunc {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return WrapTransformingTyped("test.ping", logger, noop.NewTracerProvider().Tracer("test"), handler)
}

func TestWrapTransformingTyped(t *testing.T) {
	t.Run("decodes payload and emits results", func(t *testing.T) {
		var gotCorrelation, gotReplyTo string
		h := wrap(func(ctx context.Context, p *ping) ([]Result, error) {
			gotCorrelation = attr.CorrelationIDFrom(ctx)
			gotReplyTo = ReplyTopic(ctx, "pong.v1")
			return []Result{{Topic: gotReplyTo, Payload: pong{Greeting: "hello " + p.Name}, Metadata: map[string]string{"k": "v"}}}, nil
		})

		msg := message.NewMessage("msg-1", []byte(`{"name":"teal"}`))
		middleware.SetCorrelationID("corr-1", msg)
		msg.Metadata.Set(ReplyToMetadataKey, "inbox.42")

		out, err := h(msg)
		require.NoError(t, err)
		require.Len(t, out, 1)

		assert.Equal(t, "corr-1", gotCorrelation)
		assert.Equal(t, "inbox.42", gotReplyTo)
		assert.Equal(t, "inbox.42", out[0].Metadata.Get(eventbus.TopicMetadataKey))
		assert.Equal(t, "corr-1", middleware.MessageCorrelationID(out[0]))
		assert.Equal(t, "v", out[0].Metadata.Get("k"))

		var body pong
		require.NoError(t, json.Unmarshal(out[0].Payload, &body))
		assert.Equal(t, "hello teal", body.Greeting)
	})

	t.Run("falls back to message id for correlation", func(t *testing.T) {
		var gotCorrelation string
		h := wrap(func(ctx context.Context, p *ping) ([]Result, error) {
			gotCorrelation = attr.CorrelationIDFrom(ctx)
			assert.Equal(t, "pong.v1", ReplyTopic(ctx, "pong.v1"))
			return nil, nil
		})

		out, err := h(message.NewMessage("msg-2", []byte(`{}`)))
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Equal(t, "msg-2", gotCorrelation)
	})

	t.Run("drops undecodable payloads", func(t *testing.T) {
		called := false
		h := wrap(func(ctx context.Context, p *ping) ([]Result, error) {
			called = true
			return nil, nil
		})

		out, err := h(message.NewMessage("msg-3", []byte(`not json`)))
		assert.NoError(t, err)
		assert.Nil(t, out)
		assert.False(t, called)
	})

	t.Run("returns handler errors for retry", func(t *testing.T) {
		boom := errors.New("boom")
		h := wrap(func(ctx context.Context, p *ping) ([]Result, error) {
			return nil, boom
		})

		_, err := h(message.NewMessage("msg-4", []byte(`{}`)))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("rejects results without topic", func(t *testing.T) {
		h := wrap(func(ctx context.Context, p *ping) ([]Result, error) {
			return []Result{{Payload: pong{}}}, nil
		})

		_, err := h(message.NewMessage("msg-5", []byte(`{}`)))
		assert.ErrorContains(t, err, "no topic")
	})
}
