package services

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/placements/modules/placement/domain/intake"
	"github.com/campusforge/placements/pkg/eventbus"
)

func TestListenersReceiveLifecycleEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.InfoLevel)

	bus := eventbus.NewEventPublisher(logger)
	RegisterListeners(bus, logger)
	require.Equal(t, 4, bus.SubscribersCount())

	bus.Publish("batch.ingested", IngestResult{TotalAdded: 3, TotalSkipped: 1})
	bus.Publish("data.cleared", "khub")
	bus.Publish("batch.purged", 2025)
	bus.Publish("intake.saved", []intake.Entry{{College: "KIET", Branch: "CSE"}})

	out := buf.String()
	require.Contains(t, out, "batch ingested")
	require.Contains(t, out, "data cleared")
	require.Contains(t, out, "batch purged")
	require.Contains(t, out, "intake saved")
	require.NotContains(t, out, "no matching subscribers")
}
