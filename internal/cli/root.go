// Package cli provides the domtemplate command-line interface.
package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	domtemplate "github.com/goliatone/go-domtemplate"
	"github.com/goliatone/go-domtemplate/internal/config"
	"github.com/goliatone/go-domtemplate/pkg/data"
)

// Version is set at build time.
var Version = "0.1.0"

// app carries the state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "domtemplate",
		Short: "Bind JSON or YAML data into HTML documents",
		Long: `domtemplate binds data into an HTML document using data-bind directives,
{{ }} placeholders and data-template lists and tables, then writes the result.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if cfg.File != "" {
				a.logger.Debug("using config file", "path", cfg.File)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./domtemplate.yaml)")
	flags.StringP("input", "i", config.StdStream, "HTML document to bind (- for stdin)")
	flags.StringP("data", "d", "", "JSON or YAML data file (- for stdin)")
	flags.StringP("output", "o", config.StdStream, "where to write the document (- for stdout)")
	flags.Bool("sanitize", false, "sanitise values bound through html directives")
	flags.Bool("text-placeholders", true, "interpolate {{ }} placeholders in text nodes")
	flags.Bool("strict", false, "fail when required directives stay unbound")
	flags.Bool("clean", false, "remove leftover data-bind attributes before writing")
	flags.BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newBindCommand(a))
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newTableCommand(a))
	rootCmd.AddCommand(newValidateCommand(a))
	rootCmd.AddCommand(newTemplatesCommand(a))
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *app) options() []domtemplate.Option {
	opts := []domtemplate.Option{
		domtemplate.WithLogger(a.logger),
		domtemplate.WithTextPlaceholders(a.cfg.TextPlaceholders),
	}
	if a.cfg.Sanitize {
		opts = append(opts, domtemplate.WithSanitizedHTML())
	}
	return opts
}

func (a *app) openDocument(cmd *cobra.Command) (*domtemplate.Document, error) {
	if a.cfg.Input == config.StdStream {
		return domtemplate.Parse(cmd.InOrStdin(), a.options()...)
	}
	return domtemplate.ParseFile(a.cfg.Input, a.options()...)
}

func (a *app) loadData(cmd *cobra.Command) (any, error) {
	if err := a.cfg.RequireData(); err != nil {
		return nil, err
	}
	if a.cfg.Data == config.StdStream {
		return data.Load(cmd.InOrStdin())
	}
	return data.LoadFile(a.cfg.Data)
}

// scope returns the element named by --target, or the whole document.
func (a *app) scope(doc *domtemplate.Document) (binder, error) {
	if a.cfg.Target == "" {
		return doc, nil
	}
	element := doc.ElementByID(a.cfg.Target)
	if element == nil {
		return nil, fmt.Errorf("no element with id %q", a.cfg.Target)
	}
	return element, nil
}

// binder is what Document and Element have in common.
type binder interface {
	BindData(value any) error
	BindList(rows any, name ...string) (int, error)
	BindTable(value any) error
}

// finish applies the strict and clean settings and writes the document.
func (a *app) finish(cmd *cobra.Command, doc *domtemplate.Document) error {
	if a.cfg.Strict {
		if err := doc.Validate(); err != nil {
			return err
		}
	}
	if a.cfg.Clean {
		doc.RemoveBinds()
	}
	return a.write(cmd.OutOrStdout(), doc)
}

func (a *app) write(stdout io.Writer, doc *domtemplate.Document) error {
	if a.cfg.Output == config.StdStream {
		return doc.Render(stdout)
	}
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(a.cfg.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Debug("document written", "path", a.cfg.Output, "bytes", buf.Len())
	return nil
}
