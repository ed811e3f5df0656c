package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"fleet-dashboard/internal/export"
	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/report"
	"fleet-dashboard/internal/table"
)

// reportFlags select the scope and filters of a report run
type reportFlags struct {
	fleet   string
	period  int
	filters []string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fleet, "fleet", "", "Only vehicles of this fleet")
	cmd.Flags().IntVar(&f.period, "period", 0, "Period in days (default from config)")
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "F", nil, "Filter value as id=value (repeatable)")
}

func (f *reportFlags) scope() models.Scope {
	period := f.period
	if period <= 0 {
		period = cfg.Reports.PeriodDays
	}
	return models.Scope{FleetID: f.fleet, PeriodDays: period}
}

// apply overrides the report defaults with the --filter values
func (f *reportFlags) apply(rep report.Report) (models.Filters, error) {
	out := rep.DefaultFilters().Clone()
	known := make(map[string]bool)
	for _, field := range rep.Filters() {
		known[field.ID] = true
	}
	for _, raw := range f.filters {
		id, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("expected id=value, got %q", raw)
		}
		if !known[id] {
			return nil, fmt.Errorf("report %s has no filter %q", rep.Meta().ID, id)
		}
		out[id] = value
	}
	return out, nil
}

// reportsCmd browses and exports the report catalog
func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Report catalog commands",
	}
	cmd.AddCommand(reportsListCmd(), reportsShowCmd(), reportsExportCmd())
	return cmd
}

func reportsListCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports by category with their estimated size",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			defer database.Close()

			catalog := newCatalog(ds)
			scope := flags.scope()

			for _, cat := range catalog.Categories() {
				t := ltable.New().
					Border(lipgloss.RoundedBorder()).
					BorderStyle(borderStyle).
					StyleFunc(func(row, col int) lipgloss.Style {
						if row == ltable.HeaderRow {
							return headerStyle
						}
						return cellStyle
					}).
					Headers("ID", "Relatório", "Linhas")

				for _, m := range cat.Reports {
					rep, err := catalog.Get(m.ID)
					if err != nil {
						return err
					}
					t.Row(m.ID, m.Title, fmt.Sprint(rep.EstimateTotal(scope)))
				}

				fmt.Println(titleStyle.Render(cat.Name))
				fmt.Println(t.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.fleet, "fleet", "", "Only vehicles of this fleet")
	cmd.Flags().IntVar(&flags.period, "period", 0, "Period in days (default from config)")
	return cmd
}

func reportsShowCmd() *cobra.Command {
	var flags reportFlags
	var list listFlags

	cmd := &cobra.Command{
		Use:   "show <report-id>",
		Short: "Fetch one page of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			defer database.Close()

			rep, err := newCatalog(ds).Get(args[0])
			if err != nil {
				return err
			}
			filters, err := flags.apply(rep)
			if err != nil {
				return err
			}

			state := list.state()
			if list.sort == "" {
				state.Sort = rep.DefaultSort()
			}

			res, err := rep.FetchPage(context.Background(), models.PageRequest{
				Page:     state.Page,
				PageSize: state.PageSize,
				Search:   state.Search,
				Sort:     state.Sort,
				Filters:  filters,
				Scope:    flags.scope(),
			})
			if err != nil {
				return fmt.Errorf("fetch failed: %w", err)
			}

			if list.output == "json" {
				return printJSON(res)
			}

			state.Page = res.Page
			view := table.New(table.Options[models.Record]{
				Columns:         rep.Columns(),
				Mode:            table.ServerMode,
				PageSizeOptions: cfg.Reports.PageSizeOptions,
			}).Render(table.Input[models.Record]{Rows: res.Rows, Total: res.Total, State: state})

			m := rep.Meta()
			fmt.Println(titleStyle.Render(m.Title))
			fmt.Println(subtleStyle.Render(m.Subtitle))
			fmt.Print(renderView(view))
			return nil
		},
	}

	flags.register(cmd)
	list.register(cmd)
	return cmd
}

func reportsExportCmd() *cobra.Command {
	var flags reportFlags
	var format, dir, search, sort string

	cmd := &cobra.Command{
		Use:   "export <report-id>",
		Short: "Export every matching row of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = cfg.Reports.ExportFormat
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Reports.ExportDir
			}

			ds, err := loadDataset()
			if err != nil {
				return err
			}
			defer database.Close()

			rep, err := newCatalog(ds).Get(args[0])
			if err != nil {
				return err
			}
			filters, err := flags.apply(rep)
			if err != nil {
				return err
			}

			srt := rep.DefaultSort()
			if sort != "" {
				srt = models.ParseSort(sort)
			}

			ctx := context.Background()
			rows, err := rep.ExportAll(ctx, models.ExportRequest{
				Search:  search,
				Sort:    srt,
				Filters: filters,
				Scope:   flags.scope(),
			})
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			m := rep.Meta()
			path, err := export.Save(ctx, dir, export.File{
				Report:   m.ID,
				Filename: m.ExportFilename,
				Format:   f,
				Rows:     rows,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Exported %d rows to %s\n", len(rows), path)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "Export format (csv, xlsx; default from config)")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default from config)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Search text")
	cmd.Flags().StringVar(&sort, "sort", "", `Sort column, "col" or "col:desc"`)
	return cmd
}
