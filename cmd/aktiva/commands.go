package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aktivalab/aktiva/backend/internal/activity"
	"github.com/aktivalab/aktiva/backend/internal/importer"
	"github.com/aktivalab/aktiva/backend/internal/report"
	"github.com/aktivalab/aktiva/backend/internal/tabular"
	"github.com/aktivalab/aktiva/backend/internal/tasks"
	"github.com/aktivalab/aktiva/backend/internal/tiering"
	"github.com/aktivalab/aktiva/backend/internal/users"
)

const dayLayout = "2006-01-02"

func newImportCommand() *cobra.Command {
	var (
		sheet       string
		singleDate  string
		rangeFrom   string
		rangeTo     string
		previewRows int
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import activity rows from a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := tabular.Open(args[0], sheet)
			if err != nil {
				return err
			}

			if previewRows > 0 {
				printPreview(cmd, table, previewRows)
				return nil
			}

			filter, err := buildDateFilter(singleDate, rangeFrom, rangeTo)
			if err != nil {
				return err
			}

			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			pipeline, err := importer.NewPipeline(importer.PipelineConfig{
				Store:  env.store,
				Logger: env.logger,
			})
			if err != nil {
				return err
			}

			// The import itself stays a plain blocking call; the runner just
			// keeps it off the command goroutine.
			runner := tasks.NewRunner(tasks.RunnerConfig{Logger: env.logger})
			defer runner.Close()

			outcome := <-runner.Submit(cmd.Context(), func(ctx context.Context) (any, error) {
				return pipeline.Import(ctx, table, filter)
			})
			if outcome.Err != nil {
				return outcome.Err
			}

			cmd.Printf("imported %d rows from %s\n", outcome.Value, filepath.Base(args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Workbook sheet name (XLSX only)")
	cmd.Flags().StringVar(&singleDate, "date", "", "Only import rows logged on this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rangeFrom, "from", "", "Only import rows logged on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rangeTo, "to", "", "Only import rows logged on or before this day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&previewRows, "preview", 0, "Print the first N rows without importing")
	return cmd
}

func buildDateFilter(singleDate, rangeFrom, rangeTo string) (importer.DateFilter, error) {
	if singleDate != "" {
		if rangeFrom != "" || rangeTo != "" {
			return importer.DateFilter{}, fmt.Errorf("--date cannot be combined with --from/--to")
		}
		day, err := time.Parse(dayLayout, singleDate)
		if err != nil {
			return importer.DateFilter{}, fmt.Errorf("invalid --date: %w", err)
		}
		return importer.NewSingleDateFilter(day), nil
	}
	if rangeFrom != "" || rangeTo != "" {
		if rangeFrom == "" || rangeTo == "" {
			return importer.DateFilter{}, fmt.Errorf("--from and --to must be given together")
		}
		from, err := time.Parse(dayLayout, rangeFrom)
		if err != nil {
			return importer.DateFilter{}, fmt.Errorf("invalid --from: %w", err)
		}
		to, err := time.Parse(dayLayout, rangeTo)
		if err != nil {
			return importer.DateFilter{}, fmt.Errorf("invalid --to: %w", err)
		}
		return importer.NewRangeDateFilter(from, to)
	}
	return importer.DateFilter{}, nil
}

func printPreview(cmd *cobra.Command, table tabular.Table, limit int) {
	headers := table.Headers()
	cmd.Println(strings.Join(headers, " | "))
	for i, row := range table.Rows() {
		if i >= limit {
			break
		}
		cells := make([]string, len(headers))
		for j, header := range headers {
			cells[j] = fmt.Sprint(row[header])
		}
		cmd.Println(strings.Join(cells, " | "))
	}
}

func newRelabelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "relabel",
		Short: "Recompute performance tiers for all stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			engine, err := tiering.NewEngine(tiering.EngineConfig{
				Store:  env.store,
				Seed:   env.config.ClusterSeed,
				Logger: env.logger,
			})
			if err != nil {
				return err
			}

			result, err := engine.Relabel(cmd.Context())
			if err != nil {
				return err
			}

			switch result.Status {
			case tiering.StatusEmpty:
				cmd.Println("no records to label")
			case tiering.StatusOnlyPending:
				cmd.Println("all records pending; nothing to cluster")
			default:
				cmd.Printf("labeled %d active records\n", result.ActiveCount)
			}
			return nil
		},
	}
}

func listFilterFlags(cmd *cobra.Command, rangeFrom, rangeTo, application *string, tier *int) {
	cmd.Flags().StringVar(rangeFrom, "from", "", "Earliest activity date (YYYY-MM-DD)")
	cmd.Flags().StringVar(rangeTo, "to", "", "Latest activity date (YYYY-MM-DD)")
	cmd.Flags().StringVar(application, "application", "", "Exact application name")
	cmd.Flags().IntVar(tier, "tier", 0, "Tier value (1, 2 or 3)")
}

func buildListFilter(rangeFrom, rangeTo, application string, tier int) (activity.Filter, error) {
	var filter activity.Filter
	if rangeFrom != "" {
		from, err := time.Parse(dayLayout, rangeFrom)
		if err != nil {
			return activity.Filter{}, fmt.Errorf("invalid --from: %w", err)
		}
		filter.DateFrom = &from
	}
	if rangeTo != "" {
		to, err := time.Parse(dayLayout, rangeTo)
		if err != nil {
			return activity.Filter{}, fmt.Errorf("invalid --to: %w", err)
		}
		filter.DateTo = &to
	}
	if application != "" {
		filter.Application = &application
	}
	if tier != 0 {
		filter.Tier = &tier
	}
	return filter, nil
}

func newListCommand() *cobra.Command {
	var (
		rangeFrom   string
		rangeTo     string
		application string
		tier        int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored activity records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildListFilter(rangeFrom, rangeTo, application, tier)
			if err != nil {
				return err
			}

			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			records, err := env.store.ListFiltered(cmd.Context(), filter)
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tDATE\tAPPLICATION\tDURATION\tTIER\tSTATUS")
			for _, record := range records {
				fmt.Fprintf(writer, "%d\t%s\t%s\t%d\t%s\t%s\n",
					record.ID,
					optionalDay(record.ActivityDate),
					optionalString(record.Application),
					record.DurationMinutes,
					optionalTier(record.Tier),
					optionalString(record.Status))
			}
			return writer.Flush()
		},
	}

	listFilterFlags(cmd, &rangeFrom, &rangeTo, &application, &tier)
	return cmd
}

func newExportCommand() *cobra.Command {
	var (
		rangeFrom   string
		rangeTo     string
		application string
		tier        int
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the filtered listing to a .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := buildListFilter(rangeFrom, rangeTo, application, tier)
			if err != nil {
				return err
			}

			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			exporter, err := report.NewExporter(env.store)
			if err != nil {
				return err
			}

			var written int
			switch strings.ToLower(filepath.Ext(args[0])) {
			case ".xlsx":
				written, err = exporter.ExportXLSX(cmd.Context(), args[0], filter)
			case ".csv":
				written, err = exporter.ExportCSV(cmd.Context(), args[0], filter)
			default:
				return fmt.Errorf("unsupported export format %q (use .xlsx or .csv)", filepath.Ext(args[0]))
			}
			if err != nil {
				return err
			}

			env.logger.Info("report exported",
				zap.String("path", args[0]),
				zap.Int("record_count", written))
			cmd.Printf("exported %d records to %s\n", written, args[0])
			return nil
		},
	}

	listFilterFlags(cmd, &rangeFrom, &rangeTo, &application, &tier)
	return cmd
}

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage local accounts",
	}
	cmd.AddCommand(newUserAddCommand(), newUserLoginCommand())
	return cmd
}

func newUserAddCommand() *cobra.Command {
	var registration users.Registration

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a local account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			service, err := users.NewService(users.ServiceConfig{Database: env.db})
			if err != nil {
				return err
			}

			account, err := service.Register(cmd.Context(), registration)
			if err != nil {
				return err
			}
			cmd.Printf("created account %q with role %s\n", account.Username, account.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&registration.EmployeeID, "employee-id", "", "Employee identifier")
	cmd.Flags().StringVar(&registration.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&registration.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&registration.Username, "username", "", "Login username")
	cmd.Flags().StringVar(&registration.Password, "password", "", "Login password")
	cmd.Flags().StringVar(&registration.Role, "role", "", "Account role (admin, leader, programmer)")
	return cmd
}

func newUserLoginCommand() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify a username and password against the local accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			service, err := users.NewService(users.ServiceConfig{Database: env.db})
			if err != nil {
				return err
			}

			account, err := service.Authenticate(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			cmd.Printf("authenticated %q (%s)\n", account.Username, account.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Login username")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	return cmd
}

func optionalDay(moment *time.Time) string {
	if moment == nil {
		return "-"
	}
	return moment.Format(dayLayout)
}

func optionalString(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}

func optionalTier(tier *int) string {
	if tier == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *tier)
}
