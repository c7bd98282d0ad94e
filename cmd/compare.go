package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"envcompare/core/compare"
	"envcompare/core/export"
	"envcompare/feature/comparison"
	"envcompare/feature/schema"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare data between two environments",
	Long:  `Compares a table, a query result or a table definition between two named environments.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// compareTableCmd represents the compare table command
var compareTableCmd = &cobra.Command{
	Use:   "table <source-a> <source-b> <table>",
	Short: "Compare the rows of a table",
	Long:  `Fetches a table from both environments and compares the rows by key. Without --key the primary key is used, then the first column.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		schemaName, _ := flags.GetString("schema")
		where, _ := flags.GetString("where")
		fields, _ := flags.GetStringSlice("fields")
		keys, _ := flags.GetStringSlice("key")
		maxRows, _ := flags.GetInt("max-rows")

		return runComparison(cmd, func(ctx context.Context, svc *comparison.Service) (*comparison.Outcome, error) {
			return svc.CompareTable(ctx, comparison.TableRequest{
				SourceA:   args[0],
				SourceB:   args[1],
				Schema:    schemaName,
				Table:     args[2],
				Where:     where,
				Fields:    fields,
				KeyFields: keys,
				MaxRows:   maxRows,
			})
		})
	},
}

// compareQueryCmd represents the compare query command
var compareQueryCmd = &cobra.Command{
	Use:   "query <source-a> <source-b> <sql>",
	Short: "Compare the result of a SELECT",
	Long:  `Runs a read-only SELECT in both environments and compares the rows. Without --key the first column is the key.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, _ := cmd.Flags().GetStringSlice("key")
		maxRows, _ := cmd.Flags().GetInt("max-rows")

		return runComparison(cmd, func(ctx context.Context, svc *comparison.Service) (*comparison.Outcome, error) {
			return svc.CompareQuery(ctx, comparison.QueryRequest{
				SourceA:   args[0],
				SourceB:   args[1],
				SQL:       args[2],
				KeyFields: keys,
				MaxRows:   maxRows,
			})
		})
	},
}

// compareSchemaCmd represents the compare schema command
var compareSchemaCmd = &cobra.Command{
	Use:   "schema <source-a> <source-b> <table>",
	Short: "Compare the column definitions of a table",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()
		schemaName, _ := cmd.Flags().GetString("schema")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		svc := rt.comparisonFeature().Service()
		report, err := schema.NewService(svc, svc.Engine(), rt.logger).Compare(ctx, schema.Request{
			SourceA: args[0],
			SourceB: args[1],
			Schema:  schemaName,
			Table:   args[2],
		})
		if err != nil {
			return fmt.Errorf("schema comparison failed: %w", err)
		}

		printSchemaReport(cmd.OutOrStdout(), report, args[0], args[1], time.Since(startTime))

		if jsonOutput {
			filename := fmt.Sprintf("schema_%s_%s.json", strings.ReplaceAll(report.Table, ".", "_"),
				time.Now().Format("20060102_150405"))
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nDetailed JSON saved to: %s\n", filename)
			rt.logger.Info("Schema report saved", zap.String("file", filename))
		}
		return nil
	},
}

type comparisonRun func(ctx context.Context, svc *comparison.Service) (*comparison.Outcome, error)

// runComparison builds the comparison service, runs compare and prints the
// summary and any requested export files.
func runComparison(cmd *cobra.Command, run comparisonRun) error {
	ctx := cmd.Context()
	startTime := time.Now()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	csvOutput, _ := cmd.Flags().GetBool("csv")
	upload, _ := cmd.Flags().GetBool("upload")
	limit, _ := cmd.Flags().GetInt("limit")

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	svc := rt.comparisonFeature().Service()
	out, err := run(ctx, svc)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	w := cmd.OutOrStdout()
	printSummary(w, out, time.Since(startTime))
	printDifferences(w, out.Result, limit)

	var formats []string
	if jsonOutput {
		formats = append(formats, export.FormatJSON)
	}
	if csvOutput {
		formats = append(formats, export.FormatCSV)
	}
	if upload && len(formats) == 0 {
		formats = append(formats, export.FormatJSON)
	}

	for _, format := range formats {
		file, err := svc.Export(ctx, out.Result, format, upload)
		if err != nil {
			return fmt.Errorf("failed to export %s: %w", format, err)
		}
		if err := os.WriteFile(file.Filename, file.Content, 0644); err != nil {
			return fmt.Errorf("failed to save %s file: %w", format, err)
		}
		fmt.Fprintf(w, "\nExport saved to: %s\n", file.Filename)
		if file.ObjectKey != "" {
			fmt.Fprintf(w, "Uploaded to: %s/%s\n", rt.reports.Bucket(), file.ObjectKey)
		}
	}
	return nil
}

func printSummary(w io.Writer, out *comparison.Outcome, elapsed time.Duration) {
	r := out.Result
	fmt.Fprintln(w, "\n=== Comparison Summary ===")
	fmt.Fprintf(w, "Sources: %s vs %s\n", r.SourceAName, r.SourceBName)
	fmt.Fprintf(w, "Key: %s (%s)\n", strings.Join(out.KeyFields, ", "), out.KeySource)
	fmt.Fprintf(w, "Total: %d\n", r.Summary.Total)
	fmt.Fprintf(w, "Matching: %d\n", r.Summary.Matching)
	fmt.Fprintf(w, "Differing: %d\n", r.Summary.Differing)
	fmt.Fprintf(w, "Only in %s: %d\n", r.SourceAName, r.Summary.OnlyInA)
	fmt.Fprintf(w, "Only in %s: %d\n", r.SourceBName, r.Summary.OnlyInB)
	fmt.Fprintf(w, "Execution Time: %s\n", elapsed.String())
}

// printDifferences lists up to limit non-matching records. Non-matching
// records sort first, so the scan stops at the first match.
func printDifferences(w io.Writer, r *compare.Result, limit int) {
	if limit <= 0 {
		return
	}
	shown := 0
	for _, rec := range r.Records {
		if rec.Status == compare.StatusMatch {
			break
		}
		if shown == limit {
			fmt.Fprintf(w, "... %d more\n", r.Summary.Total-r.Summary.Matching-shown)
			return
		}
		if shown == 0 {
			fmt.Fprintln(w, "\n=== Differences ===")
		}
		shown++

		switch rec.Status {
		case compare.StatusOnlyInSourceA:
			fmt.Fprintf(w, "%s: only in %s\n", rec.DisplayKey, r.SourceAName)
		case compare.StatusOnlyInSourceB:
			fmt.Fprintf(w, "%s: only in %s\n", rec.DisplayKey, r.SourceBName)
		default:
			fields := make([]string, 0, len(rec.Differences))
			for _, d := range rec.Differences {
				fields = append(fields, d.FieldName)
			}
			fmt.Fprintf(w, "%s: %s differ\n", rec.DisplayKey, strings.Join(fields, ", "))
		}
	}
}

func printSchemaReport(w io.Writer, report *schema.Report, sourceA, sourceB string, elapsed time.Duration) {
	fmt.Fprintln(w, "\n=== Schema Comparison ===")
	fmt.Fprintf(w, "Table: %s\n", report.Table)
	fmt.Fprintf(w, "Matched: %t\n", report.Matched)
	fmt.Fprintf(w, "Missing in %s: %s\n", sourceA, joinOrNone(report.MissingInA))
	fmt.Fprintf(w, "Missing in %s: %s\n", sourceB, joinOrNone(report.MissingInB))
	fmt.Fprintf(w, "Type Mismatches: %d\n", len(report.TypeMismatches))
	for _, m := range report.TypeMismatches {
		fmt.Fprintf(w, "  %s\n", m)
	}
	fmt.Fprintf(w, "Execution Time: %s\n", elapsed.String())
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func init() {
	RootCmd.AddCommand(compareCmd)
	compareCmd.AddCommand(compareTableCmd, compareQueryCmd, compareSchemaCmd)

	for _, c := range []*cobra.Command{compareTableCmd, compareQueryCmd} {
		c.Flags().StringSlice("key", nil, "Key fields (comma separated)")
		c.Flags().Int("max-rows", 0, "Rows fetched per environment (0 uses the configured limit)")
		c.Flags().Bool("json", false, "Save the result as a JSON export")
		c.Flags().Bool("csv", false, "Save the result as a CSV export")
		c.Flags().Bool("upload", false, "Also upload the exports to storage")
		c.Flags().Int("limit", 20, "Differences listed in the output (0 hides them)")
	}
	compareTableCmd.Flags().String("schema", "", "Schema of the table")
	compareTableCmd.Flags().String("where", "", "Filter applied in both environments")
	compareTableCmd.Flags().StringSlice("fields", nil, "Fields to select and compare (comma separated)")

	compareSchemaCmd.Flags().String("schema", "", "Schema of the table")
	compareSchemaCmd.Flags().Bool("json", false, "Save the detailed report as JSON")
}
