// main is the entry point of the students command.
//
// STARTUP SEQUENCE (inside cli.Execute, per command):
//  1. Load configuration (CONFIG_PATH / --config, else env + defaults)
//  2. Initialise the logger
//  3. Open (and set up) the SQLite database
//  4. Run the one store operation the command maps to
//  5. Close the database and exit with 0, 1 (failure) or 2 (invalid input)
//
// RUNNING:
//
//	go run ./cmd/students add --id S1 --name Ana --age 20 --grade 88.5
//	go run ./cmd/students list
//
// or with a config file:
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students average
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/student-records/internal/cli"
)

func main() {
	// Ctrl+C or `kill` cancels the context; the in-flight statement is
	// abandoned and the database handle is still closed on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
