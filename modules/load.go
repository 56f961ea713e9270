package modules

import (
	"github.com/brandassets/dam/modules/assets"
	"github.com/brandassets/dam/modules/core"
	"github.com/brandassets/dam/modules/superadmin"
	"github.com/brandassets/dam/pkg/application"
)

// BuiltInModules is the default module set for the tenant-facing server.
var BuiltInModules = []application.Module{
	core.NewModule(),
	assets.NewModule(),
}

// SuperadminModules is the module set for the console binary. It still
// carries core so authentication and the bridge work on the console host.
var SuperadminModules = []application.Module{
	core.NewModule(),
	superadmin.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	return application.Load(app, mods...)
}
