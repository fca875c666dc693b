// Package bootstrap runs the memoscribe process lifecycle.
//
// An App starts registered components in order, runs OnStart and OnReady
// hooks, blocks until SIGINT/SIGTERM or context cancellation, then runs
// OnStop hooks and stops components in reverse order within a graceful
// timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(loader)
//	app.OnReady(func(ctx context.Context) error { go loader.WarmUp(ctx); return nil })
//	err = app.Run(context.Background())
package bootstrap
