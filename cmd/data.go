package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/parser"
	"fleet-dashboard/internal/report"
	"fleet-dashboard/internal/table"
)

// seedCmd stores the demo dataset
func seedCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the demo vehicles, routes and events",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			if reset {
				if err := database.ReplaceDataset(models.DemoDataset()); err != nil {
					return fmt.Errorf("seed error: %w", err)
				}
				fmt.Println("✓ Demo dataset restored")
				return nil
			}

			seeded, err := database.SeedIfEmpty(models.DemoDataset())
			if err != nil {
				return fmt.Errorf("seed error: %w", err)
			}
			if seeded {
				fmt.Println("✓ Demo dataset stored")
			} else {
				fmt.Println("Database already has vehicles; use --reset to replace them")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Replace existing data with the demo dataset")
	return cmd
}

// ingestCmd loads vehicles from files
func ingestCmd() *cobra.Command {
	var format string
	var validate bool

	cmd := &cobra.Command{
		Use:   "ingest [file...]",
		Short: "Ingest vehicles from CSV, JSON or pipe-delimited files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			totalRecords := 0
			totalErrors := 0

			for _, file := range args {
				fmt.Printf("Processing %s...\n", file)
				start := time.Now()

				f := format
				if f == "" {
					f = parser.DetectFormat(file)
				}
				vehicles, err := parser.NewParser(f).ParseFile(file)
				if err != nil {
					fmt.Printf("  Error: %v\n", err)
					totalErrors++
					continue
				}

				if validate {
					valid, invalid := parser.Split(vehicles)
					for id, errs := range invalid {
						fmt.Printf("  Skipped %s: %s\n", id, strings.Join(errs, "; "))
					}
					totalErrors += len(invalid)
					vehicles = valid
				}

				count, err := database.UpsertVehicles(vehicles)
				if err != nil {
					fmt.Printf("  Database error: %v\n", err)
					totalErrors++
					continue
				}

				fmt.Printf("  ✓ Stored %d vehicles in %v\n", count, time.Since(start))
				totalRecords += int(count)
			}

			fmt.Printf("\nTotal: %d vehicles ingested", totalRecords)
			if totalErrors > 0 {
				fmt.Printf(", %d errors", totalErrors)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "File format (csv, json, log); detected from the extension when empty")
	cmd.Flags().BoolVarP(&validate, "validate", "v", true, "Validate vehicles before storing")
	return cmd
}

// listFlags are the table controls shared by list commands
type listFlags struct {
	page   int
	size   int
	search string
	sort   string
	output string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "Page number")
	cmd.Flags().IntVarP(&f.size, "size", "s", 0, "Page size (default from config)")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Search text")
	cmd.Flags().StringVar(&f.sort, "sort", "", `Sort column, "col" or "col:desc"`)
	cmd.Flags().StringVarP(&f.output, "output", "o", "table", "Output format (table, json)")
}

func (f *listFlags) state() table.State {
	size := f.size
	if size <= 0 {
		size = cfg.Reports.PageSize
	}
	return table.State{Page: f.page, PageSize: size, Search: f.search, Sort: models.ParseSort(f.sort)}
}

// showList renders rows through a client mode engine
func showList[R any](f *listFlags, opts table.Options[R], rows []R) error {
	opts.PageSizeOptions = cfg.Reports.PageSizeOptions
	e := table.New(opts)
	e.Restore(f.state())
	view := e.Render(table.Input[R]{Rows: rows})

	if f.output == "json" {
		return printJSON(view)
	}
	fmt.Print(renderView(view))
	return nil
}

// vehiclesCmd lists vehicles, routes and events
func vehiclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Vehicle, route and event lists",
	}

	var flags listFlags
	var fleet string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List vehicles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			defer database.Close()

			return showList(&flags, table.Options[models.Vehicle]{
				Columns:    report.VehicleColumns(),
				SearchText: models.Vehicle.SearchText,
			}, models.VehicleFilter{Fleet: fleet}.Apply(ds.Vehicles))
		},
	}
	flags.register(listCmd)
	listCmd.Flags().StringVar(&fleet, "fleet", "", "Only vehicles of this fleet")

	var routeFlags listFlags
	routesCmd := &cobra.Command{
		Use:   "routes",
		Short: "List planned routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			defer database.Close()

			return showList(&routeFlags, table.Options[models.Route]{
				Columns:    report.RouteColumns(&ds),
				SearchText: report.RouteSearchText(&ds),
			}, ds.Routes)
		},
	}
	routeFlags.register(routesCmd)

	var eventFlags listFlags
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "List events, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			defer database.Close()

			return showList(&eventFlags, table.Options[models.Event]{
				Columns:    report.EventColumns(&ds),
				SearchText: report.EventSearchText(&ds),
			}, ds.Events)
		},
	}
	eventFlags.register(eventsCmd)

	showCmd := &cobra.Command{
		Use:   "show <vehicle-id>",
		Short: "Show one stored vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			vehicle, err := database.GetVehicle(args[0])
			if err != nil {
				return err
			}
			return printJSON(vehicle)
		},
	}

	cmd.AddCommand(listCmd, showCmd, routesCmd, eventsCmd)
	return cmd
}

// overviewCmd prints the fleet KPIs
func overviewCmd() *cobra.Command {
	var fleet, search, output string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show fleet KPIs and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset()
			if err != nil {
				return err
			}
			defer database.Close()

			filter := models.VehicleFilter{Fleet: fleet, Search: search}
			overview := models.Summarize(ds.Vehicles, filter.Apply(ds.Vehicles))
			if output == "json" {
				return printJSON(overview)
			}

			events := ds.Events
			if len(events) > 6 {
				events = events[:6]
			}
			recent := table.New(table.Options[models.Event]{
				Columns: report.EventColumns(&ds),
				Variant: table.Summary,
			}).Render(table.Input[models.Event]{Rows: events})

			fmt.Print(renderOverview(overview))
			fmt.Println(titleStyle.Render("Atividade recente"))
			fmt.Print(renderView(recent))
			return nil
		},
	}

	cmd.Flags().StringVar(&fleet, "fleet", "", "Only vehicles of this fleet")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Plate, driver, group, kind or fleet")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	return cmd
}

// prefsCmd reads and writes the UI preferences
func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "UI preference commands",
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show the stored preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			return printJSON(database.LoadPreferences())
		},
	}

	setCmd := &cobra.Command{
		Use:   "set key=value...",
		Short: "Change preferences (theme, ui, density, auto_refresh)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			prefs := database.LoadPreferences()
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("expected key=value, got %q", arg)
				}
				if _, known := prefs.Values()[key]; !known {
					return fmt.Errorf("unknown preference %q", key)
				}
				prefs = prefs.With(key, value)
			}

			if err := database.SavePreferences(prefs); err != nil {
				return fmt.Errorf("error saving preferences: %w", err)
			}
			return printJSON(prefs)
		},
	}

	cmd.AddCommand(getCmd, setCmd)
	return cmd
}
