// Package app provides the reqscope application runner.
//
//	func main() {
//	    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer stop()
//
//	    err := app.New().
//	        Routes(routes.RegisterAPI).
//	        Serve(ctx)
//	    ...
//	}
//
// Every reply that leaves the handler returned by Handler carries an
// X-Request-Id header and a taskLocals object in its JSON body.
package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shashiranjanraj/reqscope/config"
	"github.com/shashiranjanraj/reqscope/internal/server"
	"github.com/shashiranjanraj/reqscope/pkg/logger"
	"github.com/shashiranjanraj/reqscope/pkg/router"
)

// Application is the central configuration object. Build one with New,
// attach route callbacks, then call Serve.
type Application struct {
	routesFns []func(*router.Router)
}

// New creates an empty Application.
func New() *Application {
	return &Application{}
}

// Routes registers a route-registration callback that runs when the handler
// is built. Callbacks run in the order they were added.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Serve loads configuration, binds APP_ADDR and serves until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	addr := config.AppAddr()
	logger.Info("reqscope listening", "addr", addr, "env", config.AppEnv())
	return server.Start(ctx, addr, a.Handler(), config.ShutdownTimeout())
}

// PrintRoutes writes the named routes as a table.
func (a *Application) PrintRoutes(w io.Writer) error {
	infos := a.Router().Routes()
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No named routes registered.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	fmt.Fprintln(tw, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return tw.Flush()
}
