package cmd

import (
	"fmt"
	"path"
	"strings"

	"db-scaffold/internal/dialect"
	"db-scaffold/internal/schema"
	"db-scaffold/internal/writer"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	truncate bool
	dropOut  string
)

var dropCmd = &cobra.Command{
	Use:   "drop <samples.json>",
	Short: "Print statements that remove the inferred tables, children first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := resolveTarget(dialectFlag, quoteFlag, "", "")
		if err != nil {
			return err
		}
		d, err := dialect.New(dialect.Config{Dialect: dialect.Name(target.Dialect), IdentifierQuote: target.Quote})
		if err != nil {
			return err
		}

		_, tables, err := loadSchema(args[0])
		if err != nil {
			return err
		}

		script := strings.Join(cleanScript(d, tables, truncate), "\n") + "\n"
		if dropOut == "" {
			fmt.Print(script)
			return nil
		}

		name := "drop.sql"
		if truncate {
			name = "truncate.sql"
		}
		file := writer.File{Path: path.Join("database", name), Content: []byte(script)}
		if err := writer.Write(afero.NewOsFs(), dropOut, []writer.File{file}, nil); err != nil {
			return err
		}
		Logger.Info("script written", zap.String("path", path.Join(dropOut, file.Path)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dropCmd)

	dropCmd.Flags().BoolVar(&truncate, "truncate", false, "Empty the tables instead of dropping them")
	dropCmd.Flags().StringVarP(&dropOut, "out", "o", "", "Write the script under this directory instead of stdout")
	dropCmd.Flags().StringVar(&dialectFlag, "dialect", "", "SQL dialect: postgresql or mysql (overrides target)")
	dropCmd.Flags().StringVar(&quoteFlag, "quote", "", "Identifier quote character (overrides target)")
}

// cleanScript drops or truncates tables in reverse order. Truncation is
// framed by the dialect's seed hooks so foreign key checks do not block it.
func cleanScript(d dialect.Dialect, tables []*schema.SchemaInfo, truncate bool) []string {
	if !truncate {
		return dialect.DropScript(d, tables)
	}
	stmts := append([]string{}, d.BeforeSeed()...)
	for i := len(tables) - 1; i >= 0; i-- {
		stmts = append(stmts, d.TruncateQuery(tables[i].Table))
	}
	return append(stmts, d.AfterSeed()...)
}
