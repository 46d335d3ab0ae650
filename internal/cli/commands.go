package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	domtemplate "github.com/goliatone/go-domtemplate"
)

func newBindCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bind",
		Short: "Bind a data file into the document",
		Long: `Bind every key of the data file into the document: data-bind directives,
{{ }} placeholders in attributes and text, and data-bind:table directives.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := a.openDocument(cmd)
			if err != nil {
				return err
			}
			value, err := a.loadData(cmd)
			if err != nil {
				return err
			}
			if err := doc.BindData(value); err != nil {
				return err
			}
			return a.finish(cmd, doc)
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Expand a template once per entry of the data file",
		Long: `Clone a data-template element once per entry of the data file. The
template is chosen with --template, or is the only unnamed template below
--target (the whole document by default).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := a.openDocument(cmd)
			if err != nil {
				return err
			}
			value, err := a.loadData(cmd)
			if err != nil {
				return err
			}
			scope, err := a.scope(doc)
			if err != nil {
				return err
			}
			count, err := scope.BindList(value, a.cfg.Template)
			if err != nil {
				return err
			}
			a.logger.Debug("list expanded", "rows", count)
			return a.finish(cmd, doc)
		},
	}
	cmd.Flags().StringP("template", "t", "", "name of the data-template to expand")
	cmd.Flags().String("target", "", "id of the element holding the template")
	return cmd
}

func newTableCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Fill tables with the data file",
		Long: `Fill the tables of the document (or the table with id --target) with row-major,
column-major or double-header data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := a.openDocument(cmd)
			if err != nil {
				return err
			}
			value, err := a.loadData(cmd)
			if err != nil {
				return err
			}
			scope, err := a.scope(doc)
			if err != nil {
				return err
			}
			if err := scope.BindTable(value); err != nil {
				return err
			}
			return a.finish(cmd, doc)
		},
	}
	cmd.Flags().String("target", "", "id of the table, or of an element containing tables")
	return cmd
}

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report required directives that no data satisfies",
		Long: `Bind the data file when one is given, then list every required data-bind
directive still waiting for data. Exits with an error when any is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := a.openDocument(cmd)
			if err != nil {
				return err
			}
			if a.cfg.Data != "" {
				value, err := a.loadData(cmd)
				if err != nil {
					return err
				}
				if err := doc.BindData(value); err != nil {
					return err
				}
			}

			err = doc.Validate()
			var unbound *domtemplate.UnboundError
			if errors.As(err, &unbound) {
				for _, directive := range unbound.Directives {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), directive)
				}
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newTemplatesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the templates extracted from the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := a.openDocument(cmd)
			if err != nil {
				return err
			}
			for _, name := range doc.Templates() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
