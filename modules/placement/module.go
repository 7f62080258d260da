package placement

import (
	"github.com/campusforge/placements/modules/placement/domain/normalize"
	"github.com/campusforge/placements/modules/placement/domain/rollcode"
	"github.com/campusforge/placements/modules/placement/infrastructure/persistence"
	"github.com/campusforge/placements/modules/placement/presentation/controllers"
	"github.com/campusforge/placements/modules/placement/services"
	"github.com/campusforge/placements/pkg/application"
	"github.com/campusforge/placements/pkg/configuration"
)

func NewModule() *Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	codebook, err := rollcode.Load(configuration.Use().CodebookPath)
	if err != nil {
		return err
	}

	students := persistence.NewStudentRepository()
	offers := persistence.NewOfferRepository()
	trainings := persistence.NewTrainingRepository()
	mentorships := persistence.NewMentorshipRepository()
	logs := persistence.NewUploadLogRepository()
	intakes := persistence.NewIntakeRepository()
	analyticsRepo := persistence.NewAnalyticsRepository()

	app.RegisterServices(
		services.NewIngestService(
			students, offers, trainings, mentorships, logs, analyticsRepo,
			codebook, normalize.CTCParser{}, app.EventPublisher(),
		),
		services.NewBatchService(
			intakes, students, offers, trainings, mentorships, logs, analyticsRepo,
			app.EventPublisher(),
		),
		services.NewAnalyticsService(analyticsRepo),
		services.NewStudentService(students, offers, trainings, mentorships),
	)
	app.RegisterControllers(
		controllers.NewUploadController(app),
		controllers.NewBatchController(app),
		controllers.NewAnalyticsController(app),
		controllers.NewStudentsController(app),
	)
	services.RegisterListeners(app.EventPublisher(), app.Logger())
	return nil
}

func (m *Module) Name() string {
	return "placement"
}
