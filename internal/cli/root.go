// Package cli is the command line front end of the inventory.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"stockkeeper/internal/config"
)

// CLI builds a fresh command tree for every invocation, shell lines
// included. The App is bootstrapped once and reused.
type CLI struct {
	v         *viper.Viper
	bootstrap BootstrapFunc
	app       *App
}

func New(bootstrap BootstrapFunc) *CLI {
	return &CLI{v: config.NewViper(), bootstrap: bootstrap}
}

// NewWithApp returns a CLI that runs against an already wired App.
func NewWithApp(app *App) *CLI {
	return &CLI{v: config.NewViper(), app: app}
}

func (c *CLI) Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func (c *CLI) Close() error {
	if c.app == nil {
		return nil
	}
	return c.app.Close()
}

func (c *CLI) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "stockkeeper",
		Short:             "Single-user inventory and sales ledger",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.ensureApp,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml)")
	flags.String("db-driver", "", "database driver: sqlite|mysql|postgres")
	flags.String("db-dsn", "", "database DSN or sqlite file path")
	flags.String("log-level", "", "log level: debug|info|warn|error")
	flags.String("log-format", "", "log format: json|console")

	c.v.BindPFlag("config", flags.Lookup("config"))
	c.v.BindPFlag("database.driver", flags.Lookup("db-driver"))
	c.v.BindPFlag("database.dsn", flags.Lookup("db-dsn"))
	c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	c.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		c.productCommand(),
		c.saleCommand(),
		c.reportCommand(),
		c.shellCommand(),
	)

	return root
}

func (c *CLI) ensureApp(cmd *cobra.Command, args []string) error {
	if c.app != nil {
		return nil
	}

	cfg, err := config.Load(c.v, c.v.GetString("config"))
	if err != nil {
		return err
	}

	app, err := c.bootstrap(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	c.app = app
	return nil
}
