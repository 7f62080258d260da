package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/campusforge/placements/pkg/constants"
)

var (
	ErrNoUser = errors.New("no authenticated user found in context")
)

// Actor is the authenticated identity attached to a request. It is what
// audit rows record as the uploader.
type Actor struct {
	ID       int64
	Username string
	FullName string
	Role     string
}

func (a Actor) IsAdmin() bool {
	return a.Role == "admin"
}

func WithUser(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, constants.UserKey, actor)
}

func UseUser(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(constants.UserKey).(Actor)
	if !ok {
		return Actor{}, ErrNoUser
	}
	return actor, nil
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, or a bare one when the
// middleware did not run (tests, background jobs).
func UseLogger(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logger
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, id)
}

func UseRequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.RequestIDKey).(string)
	return id
}
