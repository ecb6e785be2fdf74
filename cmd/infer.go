package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"db-scaffold/internal/schema"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var inferFormat string

var inferCmd = &cobra.Command{
	Use:   "infer <samples.json>",
	Short: "Infer the schema of sample data and print it",
	Long: `Infer tables, columns, keys and relationships from a JSON object whose
keys are table names and whose values are arrays of sample rows.

Examples:
  db-scaffold infer samples.json                  # JSON schema on stdout
  db-scaffold infer samples.json --format summary # Human readable summary
  cat samples.json | db-scaffold infer -
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tables, err := loadSchema(args[0])
		if err != nil {
			return err
		}

		switch inferFormat {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(tables)
		case "summary":
			printSummary(tables)
			return nil
		default:
			return fmt.Errorf("unsupported format %q; use 'json' or 'summary'", inferFormat)
		}
	},
}

func init() {
	RootCmd.AddCommand(inferCmd)
	inferCmd.Flags().StringVarP(&inferFormat, "format", "f", "json", "Output format: json or summary")
}

func printSummary(tables []*schema.SchemaInfo) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	faint := color.New(color.Faint)

	fmt.Printf("📐 %d tables (creation order)\n", len(tables))
	for i, t := range tables {
		fmt.Println()
		label := t.Table
		if t.IsPivot {
			label += " (pivot)"
		}
		bold.Printf("[%02d] %s\n", i+1, label)
		faint.Printf("     primary key: %s\n", t.PrimaryKey)

		for _, c := range t.ColumnsInfo {
			var flags []string
			if c.PrimaryKey {
				flags = append(flags, "PK")
			}
			if c.Unique {
				flags = append(flags, "UNIQUE")
			}
			if c.Nullable() {
				flags = append(flags, "NULL")
			}
			if fk := c.ForeignKey; fk != nil {
				ref := "FK -> " + fk.ForeignTableName
				if fk.Dangling {
					ref += " (unknown)"
				}
				flags = append(flags, ref)
			}
			fmt.Printf("     %-24s %-10s %s\n", c.ColumnName, c.DataType, cyan.Sprint(strings.Join(flags, " ")))
		}

		for _, r := range t.Relations {
			target := r.Table
			if r.PivotTable != "" {
				target += " via " + r.PivotTable
			}
			yellow.Printf("     %-13s %s", r.Type, target)
			faint.Printf(" [%s]\n", r.Confidence)
		}
	}
}
