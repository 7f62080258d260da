package core

import (
	"github.com/campusforge/placements/modules/core/infrastructure/persistence"
	"github.com/campusforge/placements/modules/core/presentation/controllers"
	"github.com/campusforge/placements/modules/core/services"
	"github.com/campusforge/placements/pkg/application"
	"github.com/campusforge/placements/pkg/configuration"
)

func NewModule() *Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	app.RegisterServices(
		services.NewAuthService(
			persistence.NewUserRepository(),
			conf.Auth.JWTSecret,
			conf.Auth.TokenDuration,
		),
	)
	app.RegisterControllers(
		controllers.NewAuthController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
