package cli

import (
	"fmt"

	actx "go.hackfix.me/courseapi/app/context"
	aerrors "go.hackfix.me/courseapi/app/errors"
)

// The Init command creates the database schema, and writes the default
// configuration file if it doesn't exist.
type Init struct{}

// Run the init command.
func (c *Init) Run(appCtx *actx.Context) error {
	if appCtx.VersionInit != "" {
		return fmt.Errorf("the database is already initialized with version %s", appCtx.VersionInit)
	}

	if err := appCtx.DB.Init(appCtx.Version.Semantic, appCtx.Logger); err != nil {
		return aerrors.NewRuntimeError("failed initializing database", err, "")
	}
	appCtx.VersionInit = appCtx.Version.Semantic

	exists, err := appCtx.Config.Exists()
	if err != nil {
		return err
	}
	if !exists {
		if err = appCtx.Config.Save(); err != nil {
			return aerrors.NewRuntimeError("failed saving configuration", err, "")
		}
		appCtx.Logger.Info("created configuration file", "path", appCtx.Config.Path())
	}

	return nil
}
