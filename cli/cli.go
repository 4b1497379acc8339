package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"go.hackfix.me/courseapi/app/config"
	actx "go.hackfix.me/courseapi/app/context"
)

// CLI is the command line interface of the course API.
type CLI struct {
	Init   Init   `kong:"cmd,help='Create the database and default configuration.'"`
	Serve  Serve  `kong:"cmd,help='Start the web server.'"`
	User   User   `kong:"cmd,help='Manage users.'"`
	Course Course `kong:"cmd,help='Manage courses.'"`

	Log struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the app logging level."`
	} `embed:"" prefix:"log-"`
	// NOTE: kong.ConfigFlag is deliberately not used, since configuration is
	// managed independently from the CLI.
	ConfigFile string           `kong:"default='${configFile}',help='Path to the configuration file.'"`
	DataDir    string           `kong:"default='${dataDir}',help='Path to the directory where application data is stored.'"`
	Version    kong.VersionFlag `kong:"help='Output version and exit.'"`

	kong *kong.Kong
	kctx *kong.Context
}

// New initializes the command-line interface.
func New(configFilePath, dataDir, version string) (*CLI, error) {
	c := &CLI{}
	kparser, err := kong.New(c,
		kong.Name("courseapi"),
		kong.Description("REST API for managing users and courses."),
		kong.UsageOnError(),
		kong.DefaultEnvars("COURSEAPI"),
		kong.NamedMapper("email", EmailMapper{}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"configFile": configFilePath,
			"dataDir":    dataDir,
			"version":    version,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating the Kong parser: %w", err)
	}

	c.kong = kparser

	return c, nil
}

// Execute starts the command execution. Parse must be called before this method.
func (c *CLI) Execute(appCtx *actx.Context) error {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	c.kong.Stdout = appCtx.Stdout
	c.kong.Stderr = appCtx.Stderr

	//nolint:wrapcheck // This is fine.
	return c.kctx.Run(appCtx)
}

// Parse the given command line arguments. This method must be called before
// Execute.
func (c *CLI) Parse(args []string) error {
	kctx, err := c.kong.Parse(args)
	if err != nil {
		return fmt.Errorf("failed parsing CLI arguments: %w", err)
	}
	c.kctx = kctx

	return nil
}

// Command returns the full path of the executed command.
func (c *CLI) Command() string {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	cmdPath := []string{}
	for _, p := range c.kctx.Path {
		if p.Command != nil {
			cmdPath = append(cmdPath, p.Command.Name)
		}
	}

	return strings.Join(cmdPath, " ")
}

// ApplyConfig applies configuration values to the CLI, but only if they weren't
// already set.
func (c *CLI) ApplyConfig(cfg *config.Config) {
	if c.Serve.Host == "" && cfg.Server.Host.Valid {
		c.Serve.Host = cfg.Server.Host.V
	}
	if c.Serve.Port == 0 && cfg.Server.Port.Valid {
		c.Serve.Port = cfg.Server.Port.V
	}
	if !c.Serve.EnableGlobalErrorLogging && cfg.Server.EnableGlobalErrorLogging.Valid {
		c.Serve.EnableGlobalErrorLogging = cfg.Server.EnableGlobalErrorLogging.V
	}
	if c.Serve.RateLimit == 0 && cfg.Server.RateLimit.Valid {
		c.Serve.RateLimit = cfg.Server.RateLimit.V
	}
	if c.Serve.RateBurst == 0 && cfg.Server.RateBurst.Valid {
		c.Serve.RateBurst = cfg.Server.RateBurst.V
	}
}
