// Package app wires the calendar generator together: configuration,
// logging, OpenTelemetry, the in-memory stores, the template stores and the
// HTTP router.
//
// # Initialization Flow
//
//	1. Load configuration from a YAML file and CALGEN_* environment variables
//	2. Initialize logging and observability
//	3. Create the calendar and quote stores and the two template stores
//	4. Initialize services with their dependencies
//	5. Set up HTTP handlers and middleware
//	6. Serve until SIGINT or SIGTERM, then shut down gracefully
//
// # Usage
//
//	a, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return a.Run()
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
