package eventbus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type batchIngested struct {
	Year int
}

func TestPublisher_PublishNoSubscribers(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)

	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *batchIngested) {
		t.Error("should not be called")
	})
	publisher.Publish("unrelated")

	output := logBuffer.String()
	require.True(t, strings.Contains(output, "eventbus.Publish: no matching subscribers"), "got %q", output)
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(logrus.New())
	var got *batchIngested
	publisher.Subscribe(func(e *batchIngested) {
		got = e
	})
	publisher.Publish(&batchIngested{Year: 2025})

	require.NotNil(t, got)
	require.Equal(t, 2025, got.Year)
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher(logrus.New())
	handler := func(e *batchIngested) {}
	publisher.Subscribe(handler)
	require.Equal(t, 1, publisher.SubscribersCount())

	publisher.Unsubscribe(handler)
	require.Equal(t, 0, publisher.SubscribersCount())
}

func TestPublisher_PanicRecovery(t *testing.T) {
	publisher := NewEventPublisher(logrus.New())
	publisher.Subscribe(func(e *batchIngested) {
		panic("boom")
	})
	require.NotPanics(t, func() {
		publisher.Publish(&batchIngested{Year: 2024})
	})
}
