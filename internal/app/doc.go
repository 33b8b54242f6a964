// Package app wires the interview check web service together and runs it.
//
// # Initialization Flow
//
//	1. The caller loads config and resolves paths (config.Load, config.ResolvePaths)
//	2. NewApplication ensures the output and log directories exist
//	3. The roster workbook is loaded; a missing or unreadable roster is fatal
//	4. Services are built on the roster, the evaluation store and the metrics
//	5. The chi router gets the middleware chain and the /api and /metrics routes
//
// # Usage
//
//	app, err := app.NewApplication(cfg, paths, logger)
//	if err != nil {
//	    return err
//	}
//	return app.Run()
//
// # Graceful Shutdown
//
// Run serves until SIGINT or SIGTERM. The server and the shutdown watcher run
// in one errgroup; shutdown waits up to Server.ShutdownTimeout for in-flight
// requests. Result files are written atomically per request, so nothing is
// left to flush.
//
// The package never calls os.Exit; main decides the exit code.
package app
