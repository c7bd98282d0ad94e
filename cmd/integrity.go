package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"envcompare/feature/integrity"
	"envcompare/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check that environments and storage are reachable",
	Long:  `Connects to every configured environment and checks the export bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return runIntegrityChecks(cmd.Context(), cmd.OutOrStdout(), true, true, jsonOutput)
	},
}

// integrityEnvironmentsCmd represents the integrity environments command
var integrityEnvironmentsCmd = &cobra.Command{
	Use:   "environments",
	Short: "Check that every environment is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), cmd.OutOrStdout(), true, false, false)
	},
}

// integrityStorageCmd represents the integrity storage command
var integrityStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the export bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), cmd.OutOrStdout(), false, true, false)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(integrityEnvironmentsCmd, integrityStorageCmd)

	integrityCmd.Flags().Bool("json", false, "Save the combined report as JSON")
	integrityStorageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket if missing")
}

func runIntegrityChecks(ctx context.Context, w io.Writer, runEnvironments, runStorage, jsonOutput bool) error {
	startTime := time.Now()

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	logg := rt.logger

	svc := integrity.NewService(rt.envs, rt.pool, rt.reports, logg)
	report := &integrity.Report{Healthy: true}

	if runEnvironments {
		logg.Info("Checking environments...")
		report.Environments = svc.CheckEnvironments(ctx)
		printEnvironmentStatuses(w, report.Environments)
		for _, env := range report.Environments {
			if env.Status != checks.StatusOK {
				report.Healthy = false
			}
		}
	}

	if runStorage {
		logg.Info("Checking export storage...")
		report.Storage = svc.CheckStorage(ctx)

		if report.Storage.Configured && !report.Storage.Exists {
			if fixFlag {
				logg.Info("Creating missing bucket...")
				if err := svc.FixStorage(ctx); err != nil {
					return fmt.Errorf("failed to fix storage: %w", err)
				}
				report.Storage = svc.CheckStorage(ctx)
			} else {
				logg.Info("Run 'integrity storage --fix' to create the bucket.")
			}
		}
		printStorageStatus(w, report.Storage)
		if report.Storage.Status != checks.StatusOK {
			report.Healthy = false
		}
	}

	if jsonOutput {
		filename := fmt.Sprintf("integrity_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		fmt.Fprintf(w, "\nDetailed JSON saved to: %s\n", filename)
	}

	fmt.Fprintf(w, "\nHealthy: %t\n", report.Healthy)
	fmt.Fprintf(w, "Execution Time: %s\n", time.Since(startTime).String())

	logg.Info("Integrity checks completed", zap.Bool("healthy", report.Healthy))
	if !report.Healthy {
		return fmt.Errorf("integrity checks failed")
	}
	return nil
}

func printEnvironmentStatuses(w io.Writer, statuses []checks.EnvironmentStatus) {
	fmt.Fprintln(w, "\n=== Environments ===")
	for _, env := range statuses {
		if env.Status == checks.StatusOK {
			fmt.Fprintf(w, "%-16s %-8s ok (%dms)\n", env.Name, env.Driver, env.LatencyMS)
		} else {
			fmt.Fprintf(w, "%-16s %-8s error: %s\n", env.Name, env.Driver, env.Error)
		}
	}
}

func printStorageStatus(w io.Writer, status checks.StorageStatus) {
	fmt.Fprintln(w, "\n=== Storage ===")
	switch {
	case !status.Configured:
		fmt.Fprintln(w, "Not configured, exports are not uploaded")
	case status.Status == checks.StatusOK:
		fmt.Fprintf(w, "Bucket %s: ok\n", status.Bucket)
	default:
		fmt.Fprintf(w, "Bucket %s: %s\n", status.Bucket, status.Error)
	}
}
