// Package cli wires configuration, logging, the record store and the
// student handlers into the `students` command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/student-records/internal/cli/handlers/student"
	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string // overrides storage_path from the config
	Format     string // "text" | "json" | "yaml"
}

// App owns the process-scoped resources: the loaded config and the open
// store. It is filled in by the root command's PersistentPreRunE and
// released by Close.
type App struct {
	Options RootOptions
	Config  *config.Config
	Storage storage.Storage

	open func(cfg *config.Config) (storage.Storage, error)
}

// NewApp returns an App that stores records in SQLite.
func NewApp() *App {
	return &App{open: openSQLite}
}

func openSQLite(cfg *config.Config) (storage.Storage, error) {
	s, err := sqlite.New(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the store, if one was opened.
func (a *App) Close() error {
	if a.Storage == nil {
		return nil
	}
	err := a.Storage.Close()
	a.Storage = nil
	return err
}

// setup loads config, installs the logger and opens the store.
func (a *App) setup(logOut io.Writer) error {
	cfg, err := config.Load(config.ResolvePath(a.Options.ConfigPath))
	if err != nil {
		return err
	}
	if a.Options.DBPath != "" {
		cfg.StoragePath = a.Options.DBPath
	}
	a.Config = cfg

	log := setupLogger(cfg.Env, logOut)
	slog.SetDefault(log)

	store, err := a.open(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		return fmt.Errorf("cannot open student records at %s: %w", cfg.StoragePath, err)
	}
	a.Storage = store

	log.Debug("storage initialised", slog.String("path", cfg.StoragePath))
	return nil
}

// storeAnnotations marks a command that runs against the record store;
// help and completion commands do not open the database.
func storeAnnotations() map[string]string {
	return map[string]string{"store": "true"}
}

// invalidUsage reports a command line cobra rejected, such as a wrong
// argument count or an unknown flag. It exits like any other invalid input.
func invalidUsage(cmd *cobra.Command, format string, err error) error {
	_ = response.Write(cmd.ErrOrStderr(), format, response.GeneralError(err))
	return &response.ExitError{Code: response.ExitInvalidInput, Err: err}
}

// NewRootCommand creates the `students` command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Maintain a local set of student records",
		Long: `Maintain a small set of student records (id, name, age, grade)
in a local SQLite file. Each command maps to one record store operation.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !response.ValidFormat(app.Options.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", app.Options.Format, response.Formats)
			}
			if cmd.Annotations["store"] != "true" {
				return nil
			}
			return app.setup(cmd.ErrOrStderr())
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return invalidUsage(c, app.Options.Format, err)
	})
	checkArgs := func(validate cobra.PositionalArgs) cobra.PositionalArgs {
		return func(c *cobra.Command, a []string) error {
			if err := validate(c, a); err != nil {
				return invalidUsage(c, app.Options.Format, err)
			}
			return nil
		}
	}

	cmd.PersistentFlags().StringVar(&app.Options.ConfigPath, "config", "", "path to the configuration YAML file (or CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&app.Options.DBPath, "db", "", "path to the SQLite database file (overrides storage_path)")
	cmd.PersistentFlags().StringVar(&app.Options.Format, "format", response.FormatText, "output format (text|json|yaml)")

	addCmd := &cobra.Command{
		Use:         "add",
		Short:       "Add a student",
		Example:     "  students add --id S1 --name Ana --age 20 --grade 88.5",
		Args:        checkArgs(cobra.NoArgs),
		Annotations: storeAnnotations(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return student.New(app.Storage)(cmd, args)
		},
	}
	student.InputFlags(addCmd)

	updateCmd := &cobra.Command{
		Use:         "update",
		Short:       "Replace a student's name, age and grade",
		Example:     "  students update --id S1 --name Ana --age 21 --grade 88.5",
		Args:        checkArgs(cobra.NoArgs),
		Annotations: storeAnnotations(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return student.Update(app.Storage)(cmd, args)
		},
	}
	student.InputFlags(updateCmd)

	removeCmd := &cobra.Command{
		Use:         "remove <id>",
		Aliases:     []string{"rm", "delete"},
		Short:       "Remove a student",
		Args:        checkArgs(cobra.ExactArgs(1)),
		Annotations: storeAnnotations(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return student.Delete(app.Storage)(cmd, args)
		},
	}

	getCmd := &cobra.Command{
		Use:         "get <id>",
		Short:       "Show one student",
		Args:        checkArgs(cobra.ExactArgs(1)),
		Annotations: storeAnnotations(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return student.GetByID(app.Storage)(cmd, args)
		},
	}

	listCmd := &cobra.Command{
		Use:         "list",
		Aliases:     []string{"ls"},
		Short:       "List all students",
		Args:        checkArgs(cobra.NoArgs),
		Annotations: storeAnnotations(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return student.GetList(app.Storage)(cmd, args)
		},
	}

	averageCmd := &cobra.Command{
		Use:         "average",
		Aliases:     []string{"avg"},
		Short:       "Show the average grade",
		Args:        checkArgs(cobra.NoArgs),
		Annotations: storeAnnotations(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return student.Average(app.Storage)(cmd, args)
		},
	}

	cmd.AddCommand(addCmd, removeCmd, updateCmd, listCmd, averageCmd, getCmd)

	return cmd
}

// Execute runs the command line in args and returns the process exit code.
// The store is closed before Execute returns.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	app := NewApp()
	defer func() {
		if err := app.Close(); err != nil {
			slog.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return response.ExitSuccess
	}

	// Handlers and argument checks print their own failures; anything
	// else (a bad format, a missing config file) is printed here.
	var exitErr *response.ExitError
	if !errors.As(err, &exitErr) {
		_ = response.Write(errOut, app.Options.Format, response.GeneralError(err))
	}
	return response.ExitCode(err)
}
