// Package bootstrap orchestrates the lifecycle of an initkit application.
//
// An App validates its configuration, initializes the logger, installs
// OpenTelemetry providers when enabled, starts the scheduler and owns the
// component registry. Start initializes every registered component in
// dependency order; Shutdown stops them in reverse.
//
// # Quick Start
//
//	cfg, _ := config.Load("orders")
//	app, _ := bootstrap.NewApp(cfg)
//	app.Register("database", openDatabase)
//	app.Register("consumer", startConsumer, "database")
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap
