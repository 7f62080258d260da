package services

import (
	"github.com/sirupsen/logrus"

	"github.com/campusforge/placements/modules/placement/domain/intake"
	"github.com/campusforge/placements/pkg/eventbus"
)

// RegisterListeners subscribes the audit listeners for the lifecycle events
// this module publishes. Handler signatures must match the Publish sites.
func RegisterListeners(bus eventbus.EventBus, logger *logrus.Logger) {
	bus.Subscribe(func(event string, result IngestResult) {
		logger.WithFields(logrus.Fields{
			"event":   event,
			"added":   result.TotalAdded,
			"skipped": result.TotalSkipped,
			"errors":  len(result.Errors),
		}).Info("batch ingested")
	})
	bus.Subscribe(func(event string, clearType string) {
		logger.WithFields(logrus.Fields{
			"event": event,
			"type":  clearType,
		}).Info("data cleared")
	})
	bus.Subscribe(func(event string, year int) {
		logger.WithFields(logrus.Fields{
			"event": event,
			"year":  year,
		}).Info("batch purged")
	})
	bus.Subscribe(func(event string, entries []intake.Entry) {
		logger.WithFields(logrus.Fields{
			"event":   event,
			"entries": len(entries),
		}).Info("intake saved")
	})
}
