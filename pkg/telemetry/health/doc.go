// Package health provides liveness and readiness endpoints for long
// running schedconf commands.
//
// /health answers 200 while the process runs. /ready runs every registered
// check and answers 503 when any of them fails:
//
//	checker := health.New(0)
//	checker.RegisterCheck("configuration", func(ctx context.Context) error {
//	    if reloader.Current() == nil {
//	        return errors.New("no configuration loaded")
//	    }
//	    return nil
//	})
//	checker.Register(mux)
//
// Checks run concurrently, each bounded by the checker's timeout.
package health
