package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"posterdesk/internal/app"
	"posterdesk/internal/config"
	"posterdesk/internal/export"
	"posterdesk/internal/service"
)

var version = "0.3.0"

type options struct {
	dataDir string
}

// core opens the services of the data directory, defaulting to the one
// the desktop app uses.
func (o *options) core() (*service.Core, error) {
	dir := o.dataDir
	if dir == "" {
		d, err := config.DataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get data directory: %w", err)
		}
		dir = d
	}
	return service.OpenCore(dir, nil, service.NopEmitter{})
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "posterctl",
		Short:         "posterctl - manage PosterDesk poster templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "PosterDesk data directory")

	root.AddCommand(
		newPresetsCmd(opts),
		newTemplatesCmd(opts),
		newExportCmd(opts),
		newPublishCmd(opts),
		newCatalogCmd(opts),
		newMCPCmd(),
		newVersionCmd(),
	)
	return root
}

func newPresetsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available page sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.core()
			if err != nil {
				return err
			}
			defer core.Close()

			def := core.Presets.Get().Default().Key
			for _, p := range core.PageSizes() {
				mark := " "
				if p.Key == def {
					mark = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-8s %6.0f x %.0f\n", mark, p.Key, p.WidthPx, p.HeightPx)
			}
			return nil
		},
	}
}

func newTemplatesCmd(opts *options) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List saved templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.core()
			if err != nil {
				return err
			}
			defer core.Close()

			list, err := core.Templates.List(category)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates")
				return nil
			}
			for _, t := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", t.ID, t.PageKey, t.Category, t.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list templates in this category")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var (
		format    string
		outDir    string
		clipboard bool
	)
	cmd := &cobra.Command{
		Use:   "export <templateID>",
		Short: "Export a saved template as SVG, PDF or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if clipboard && f != export.FormatSVG {
				return fmt.Errorf("only svg can be copied to the clipboard")
			}

			core, err := opts.core()
			if err != nil {
				return err
			}
			defer core.Close()

			var d export.Deliverer = export.ClipboardDeliverer{}
			dir := outDir
			if !clipboard {
				if dir == "" {
					dir = core.ExportDir()
				}
				d = export.DirDeliverer{Dir: dir}
			}

			res, err := core.Exports.ExportTemplate(cmd.Context(), args[0], f, d)
			if err != nil {
				return err
			}
			if clipboard {
				fmt.Fprintln(cmd.OutOrStdout(), "Copied SVG to the clipboard")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), export.DirDeliverer{Dir: dir}.Path(res.Filename))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "svg, pdf or png")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: the app's export directory)")
	cmd.Flags().BoolVar(&clipboard, "clipboard", false, "copy the SVG to the clipboard instead of writing a file")
	return cmd
}

func newPublishCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <templateID>",
		Short: "Publish a saved template to the shared catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.core()
			if err != nil {
				return err
			}
			defer core.Close()

			entry, err := core.Catalog.Publish(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %q as %s\n", entry.Title, entry.ID)
			return nil
		},
	}
}

func newCatalogCmd(opts *options) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List templates in the shared catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.core()
			if err != nil {
				return err
			}
			defer core.Close()

			list, err := core.Catalog.List(cmd.Context(), category)
			if err != nil {
				return err
			}
			for _, e := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.PageKey, e.Category, e.Publisher, e.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list entries in this category")
	return cmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the PosterDesk MCP tools on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return app.RunMCP(ctx)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of posterctl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "posterctl version %s\n", version)
		},
	}
}
