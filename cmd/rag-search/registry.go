package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rag-search/pkg/registry"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the activity registry",
}

var registryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a registry file (default: the embedded registry)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		return validateRegistry(cmd.OutOrStdout(), path)
	},
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the activities in the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		return listActivities(cmd.OutOrStdout(), path)
	},
}

func init() {
	registryCmd.PersistentFlags().String("path", "", "path to a registry JSON file")
	registryCmd.AddCommand(registryValidateCmd, registryListCmd)
	rootCmd.AddCommand(registryCmd)
}

func validateRegistry(out io.Writer, path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	fmt.Fprintf(out, "Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func listActivities(out io.Writer, path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK TYPE\tTIMEOUT\tRETRIES")
	for _, a := range reg.Activities {
		taskType := a.TaskType
		if taskType == "" {
			taskType = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", a.ID, taskType, a.Timeout, a.Retries)
	}
	return w.Flush()
}
