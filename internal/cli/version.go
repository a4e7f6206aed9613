package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aryankumar/rangeminer/internal/output"
	"github.com/aryankumar/rangeminer/pkg/version"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for rangeminer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()
	outputFormat, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()

	switch outputFormat {
	case "json":
		return output.NewJSONFormatter(nil).Format(w, info)
	case "yaml":
		return output.NewYAMLFormatter(nil).Format(w, info)
	case "table":
		return outputVersionTable(w, info)
	case "", "text":
		_, err := fmt.Fprintln(w, info.String())
		return err
	default:
		return fmt.Errorf("unsupported output format: %s (supported: text, table, json, yaml)", outputFormat)
	}
}

func outputVersionTable(w io.Writer, info version.Info) error {
	return output.NewTableFormatter(&output.Options{}).Format(w, []map[string]interface{}{
		{"component": "Version", "value": info.Version},
		{"component": "Commit", "value": info.Commit},
		{"component": "Build Time", "value": info.BuildTime},
		{"component": "Go Version", "value": info.GoVersion},
		{"component": "Platform", "value": info.Platform},
	})
}
