package assets

import (
	"context"
	"time"

	"github.com/brandassets/dam/modules/assets/infrastructure/persistence"
	"github.com/brandassets/dam/modules/assets/infrastructure/storage"
	"github.com/brandassets/dam/modules/assets/presentation/controllers"
	"github.com/brandassets/dam/modules/assets/services"
	corepersistence "github.com/brandassets/dam/modules/core/infrastructure/persistence"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Name() string {
	return "assets"
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	store, err := storage.NewMinioStorage(conf.Storage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return err
	}

	assetRepo := persistence.NewAssetRepository()
	tagRepo := persistence.NewTagRepository()
	tenantRepo := corepersistence.NewTenantRepository()

	app.RegisterServices(
		services.NewAssetService(assetRepo, tagRepo, tenantRepo, store, app.EventPublisher()),
		services.NewTagService(tagRepo),
	)

	app.RegisterControllers(
		controllers.NewAssetsController(app),
	)

	return nil
}
