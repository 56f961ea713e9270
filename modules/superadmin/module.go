package superadmin

import (
	corepersistence "github.com/brandassets/dam/modules/core/infrastructure/persistence"
	"github.com/brandassets/dam/modules/superadmin/presentation/controllers"
	"github.com/brandassets/dam/modules/superadmin/services"
	"github.com/brandassets/dam/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "superadmin"
}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewConsoleService(
			corepersistence.NewTenantRepository(),
			corepersistence.NewUserRepository(),
			corepersistence.NewMembershipRepository(),
			corepersistence.NewSystemAdminRepository(),
			app.EventPublisher(),
		),
	)

	app.RegisterControllers(
		controllers.NewTenantsController(app),
	)

	return nil
}
