package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brandassets/dam/internal/server"
	"github.com/brandassets/dam/modules"
	"github.com/brandassets/dam/pkg/application"
	"github.com/brandassets/dam/pkg/configuration"
	"github.com/brandassets/dam/pkg/eventbus"
)

// The console binary serves only the system-admin host. Running it apart
// from the tenant server keeps console deployments and tenant traffic
// independently scalable.
func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.SuperadminModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	srv, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	logger.WithField("address", conf.SocketAddress).Info("starting superadmin console")
	if err := srv.Start(conf.SocketAddress); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
