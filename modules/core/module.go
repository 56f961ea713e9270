package core

import (
	"github.com/brandassets/dam/modules/core/infrastructure/persistence"
	"github.com/brandassets/dam/modules/core/presentation/controllers"
	"github.com/brandassets/dam/modules/core/services"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "core"
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	tenantRepo := persistence.NewTenantRepository()
	userRepo := persistence.NewUserRepository()
	membershipRepo := persistence.NewMembershipRepository()
	sessionRepo := persistence.NewSessionRepository()
	sysAdminRepo := persistence.NewSystemAdminRepository()

	app.RegisterServices(
		services.NewTenantService(tenantRepo, membershipRepo, sysAdminRepo),
		services.NewRoleService(membershipRepo, sysAdminRepo),
		services.NewAuthService(userRepo, sessionRepo, app.EventPublisher()),
		services.NewUserService(userRepo, app.EventPublisher()),
		services.NewBridgeService(conf.Tenancy.BridgeSecret, conf.Tenancy.BridgeTokenTTL),
	)

	app.RegisterControllers(
		controllers.NewAuthController(app),
	)

	return nil
}
