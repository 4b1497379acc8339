package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"

	"go.hackfix.me/courseapi/app/config"
	actx "go.hackfix.me/courseapi/app/context"
	"go.hackfix.me/courseapi/cli"
	"go.hackfix.me/courseapi/db"
	"go.hackfix.me/courseapi/db/queries"
)

// DBFileName is the name of the SQLite database file created in the data
// directory, unless a database path is configured.
const DBFileName = "courseapi.db"

// App is the application.
type App struct {
	name string
	ctx  *actx.Context
	cli  *cli.CLI
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application.
func New(name, configFilePath, dataDir string, opts ...Option) (*App, error) {
	version, err := actx.GetVersion()
	if err != nil {
		return nil, err
	}

	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      memoryfs.New(),
		Logger:  slog.Default(),
		TimeNow: time.Now,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: version,
	}
	app := &App{name: name, ctx: defaultCtx}

	for _, opt := range opts {
		opt(app)
	}

	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	app.cli, err = cli.New(configFilePath, dataDir, ver)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) error {
	if err := app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	if app.ctx.Config == nil {
		app.ctx.Config = config.NewConfig(app.ctx.FS, app.cli.ConfigFile)
	}
	if err := app.ctx.Config.Load(); err != nil {
		return err
	}
	app.ctx.Config.SetDefaults()
	app.cli.ApplyConfig(app.ctx.Config)

	if app.ctx.DB == nil {
		d, err := app.openDB()
		if err != nil {
			return err
		}
		defer func() {
			if err := d.Close(); err != nil {
				app.ctx.Logger.Warn("failed closing database", "error", err.Error())
			}
			app.ctx.DB = nil
		}()
		app.ctx.DB = d
	}

	version, err := queries.Version(app.ctx.DB.NewContext(), app.ctx.DB)
	if err != nil {
		return err
	}
	app.ctx.VersionInit = version.V

	return app.cli.Execute(app.ctx)
}

func (app *App) openDB() (*db.DB, error) {
	dbPath := filepath.Join(app.cli.DataDir, DBFileName)
	if app.ctx.Config.Database.Path.Valid {
		dbPath = app.ctx.Config.Database.Path.V
	}

	if err := app.ctx.FS.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed creating data directory: %w", err)
	}

	return db.Open(app.ctx.Ctx, dbPath, app.ctx.TimeNow)
}
