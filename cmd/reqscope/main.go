package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/reqscope/app/routes"
	"github.com/shashiranjanraj/reqscope/pkg/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func application() *app.Application {
	return app.New().Routes(routes.RegisterAPI)
}

var rootCmd = &cobra.Command{
	Use:           "reqscope",
	Short:         "reqscope: request ID propagation service",
	Long:          "reqscope serves GET /math/{num} and tags every reply with the request's X-Request-Id.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// reqscope serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

// reqscope route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return application().PrintRoutes(cmd.OutOrStdout())
	},
}

func runServe(cmd *cobra.Command, _ []string) error {
	return application().Serve(cmd.Context())
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
}
