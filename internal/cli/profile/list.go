package profile

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aryankumar/rangeminer/internal/config"
	"github.com/aryankumar/rangeminer/internal/output"
)

// newListCmd creates the profile list command
func newListCmd() *cobra.Command {
	var (
		showLabels   bool
		selector     []string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Long: `List the profiles saved in the rangeminer config file.

Unset values are shown as resolved from the defaults section. The default
profile is marked with an asterisk.`,
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, showLabels, selector, outputFormat)
		},
	}

	cmd.Flags().BoolVar(&showLabels, "show-labels", false, "show profile labels")
	cmd.Flags().StringSliceVarP(&selector, "selector", "l", nil, "only list profiles with these key=value labels")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "output format (table, json, yaml)")

	return cmd
}

func runList(cmd *cobra.Command, showLabels bool, selector []string, outputFormat string) error {
	manager, err := loadManager()
	if err != nil {
		return err
	}

	required, err := parseLabels(selector)
	if err != nil {
		return err
	}
	matching := make(map[string]bool)
	for _, name := range manager.GetProfilesByLabel(required) {
		matching[name] = true
	}

	profiles := make([]config.ProfileInfo, 0)
	for _, p := range manager.ListProfiles() {
		if matching[p.Name] {
			profiles = append(profiles, p)
		}
	}

	w := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No profiles found")
		return nil
	}

	if outputFormat == "" {
		outputFormat = viper.GetString("output")
	}

	switch outputFormat {
	case "json":
		return output.NewJSONFormatter(nil).Format(w, profiles)
	case "yaml":
		return output.NewYAMLFormatter(nil).Format(w, profiles)
	case "", "table", "text":
		return outputTable(w, profiles, showLabels, viper.GetBool("no-color"))
	default:
		return fmt.Errorf("unsupported output format: %s (supported: table, json, yaml)", outputFormat)
	}
}

func outputTable(w io.Writer, profiles []config.ProfileInfo, showLabels bool, noColor bool) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Default", "Name", "Range", "Workers", "Timeout", "Predicate"}
	if showLabels {
		headers = append(headers, "Labels")
	}
	table.SetHeader(headers)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	colors := output.NewColorScheme(w, noColor)
	greenBold := color.New(color.FgGreen, color.Bold)
	if colors.Disabled {
		greenBold.DisableColor()
	}

	for _, p := range profiles {
		marker := ""
		name := p.Name
		if p.Default {
			marker = "*"
			name = greenBold.Sprint(name)
		}

		pred := p.Predicate
		if pred == "" {
			pred = "(default)"
		}

		row := []string{
			marker,
			name,
			colors.Range("%d..%d", p.Start, p.End),
			fmt.Sprintf("%d", p.Workers),
			colors.Duration("%s", p.Timeout),
			pred,
		}
		if showLabels {
			row = append(row, colors.Warning("%s", formatLabels(p.Labels)))
		}

		table.Append(row)
	}

	table.Render()

	fmt.Fprintf(w, "\nTotal profiles: %d\n", len(profiles))
	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(labels))
	for k, v := range labels {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}
