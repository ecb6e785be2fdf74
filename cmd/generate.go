package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"db-scaffold/internal/dialect"
	"db-scaffold/internal/engine"
	"db-scaffold/internal/scaffold"
	"db-scaffold/internal/schema"
	"db-scaffold/internal/typescript"
	"db-scaffold/internal/writer"

	"github.com/fatih/color"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	outDir        string
	count         int
	seed          int64
	dryRun        bool
	useSamples    bool
	tables        []string
	dialectFlag   string
	quoteFlag     string
	frameworkFlag string
	moduleFlag    string
)

var generateCmd = &cobra.Command{
	Use:   "generate <samples.json>",
	Short: "Generate SQL, TypeScript types and backend code from sample data",
	Long: `Infer the schema of the sample data, then write:

  database/schema.sql   drop and create statements
  database/seed.sql     inserts of the mock rows
  types/types.ts        interfaces and type guards
  schema.json           the inferred schema
  mock.json             the mock rows
  ...                   models, repositories, controllers and routes

Examples:
  db-scaffold generate samples.json
  db-scaffold generate samples.json --dialect mysql --framework generic --module example.com/shop
  db-scaffold generate samples.json -t users,posts --dry-run
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := resolveTarget(dialectFlag, quoteFlag, frameworkFlag, moduleFlag)
		if err != nil {
			return err
		}

		d, err := dialect.New(dialect.Config{Dialect: dialect.Name(target.Dialect), IdentifierQuote: target.Quote})
		if err != nil {
			return err
		}
		emitter, err := scaffold.Get(target.Framework, scaffold.Options{Module: target.Module, Dialect: d})
		if err != nil {
			return err
		}
		Logger.Info("target resolved",
			zap.String("target", target.Name),
			zap.String("dialect", string(d.Name())),
			zap.String("framework", emitter.Name()))

		ds, allTables, err := loadSchema(args[0])
		if err != nil {
			return err
		}

		// Flag > Config > All
		targetTableNames := tables
		if len(targetTableNames) == 0 {
			targetTableNames = viper.GetStringSlice("settings.tables")
		}
		targetTables, err := filterTables(allTables, targetTableNames)
		if err != nil {
			return err
		}

		targetCount := viper.GetInt("settings.default_count")
		if count > 0 {
			targetCount = count
		}
		targetSeed := viper.GetInt64("settings.seed")
		if cmd.Flags().Changed("seed") {
			targetSeed = seed
		}
		dir := viper.GetString("settings.out_dir")
		if outDir != "" {
			dir = outDir
		}

		if dryRun {
			printPlan(targetTables, d, emitter, dir)
			return nil
		}

		Logger.Info("pumping mock data", zap.Int("count", targetCount), zap.Int64("seed", targetSeed))
		start := time.Now()

		pumpProgress, bar := startProgress(cmd.OutOrStdout(), max(1, targetCount*len(targetTables)), "Generating: ")
		data, results := engine.Pump(targetTables, engine.Options{
			Count:      targetCount,
			Seed:       targetSeed,
			UseSamples: useSamples,
			Samples:    ds,
			Logger:     Logger,
		}, func() {
			bar.Incr()
		})
		pumpProgress.Stop()

		files, err := buildFiles(targetTables, d, emitter, data)
		if err != nil {
			return err
		}

		writeProgress, writeBar := startProgress(cmd.OutOrStdout(), len(files), "Writing:    ")
		err = writer.Write(afero.NewOsFs(), dir, files, func() {
			writeBar.Incr()
		})
		writeProgress.Stop()
		if err != nil {
			return err
		}

		printReport(results, files, dir, time.Since(start))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (overrides config)")
	generateCmd.Flags().IntVar(&count, "count", 0, "Number of mock rows per table (overrides config)")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for reproducible mock data (0 is random)")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without writing files")
	generateCmd.Flags().BoolVar(&useSamples, "use-samples", false, "Seed tables with the sample rows instead of fake data")
	generateCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to generate (comma-separated)")
	generateCmd.Flags().StringVar(&dialectFlag, "dialect", "", "SQL dialect: postgresql or mysql (overrides target)")
	generateCmd.Flags().StringVar(&quoteFlag, "quote", "", "Identifier quote character (overrides target)")
	generateCmd.Flags().StringVar(&frameworkFlag, "framework", "", "Backend framework: "+strings.Join(scaffold.Frameworks(), ", ")+" (overrides target)")
	generateCmd.Flags().StringVar(&moduleFlag, "module", "", "Go module path for generated Go code (overrides target)")
}

// startProgress renders a single bar on its own progress container. Each
// container can be stopped once.
func startProgress(out io.Writer, total int, label string) (*uiprogress.Progress, *uiprogress.Bar) {
	p := uiprogress.New()
	p.SetOut(out)
	bar := p.AddBar(total).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return label
	})
	p.Start()
	return p, bar
}

// filterTables keeps the named tables and every table they reference,
// directly or transitively, in their safe order. No names keeps all.
func filterTables(all []*schema.SchemaInfo, names []string) ([]*schema.SchemaInfo, error) {
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]*schema.SchemaInfo, len(all))
	for _, t := range all {
		byName[strings.ToLower(t.Table)] = t
	}

	keep := make(map[string]bool)
	var visit func(t *schema.SchemaInfo)
	visit = func(t *schema.SchemaInfo) {
		if keep[t.Table] {
			return
		}
		keep[t.Table] = true
		for _, parent := range t.ForeignTables {
			if p, ok := byName[strings.ToLower(parent)]; ok {
				visit(p)
			}
		}
	}
	for _, n := range names {
		if t, ok := byName[strings.ToLower(n)]; ok {
			visit(t)
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", names)
	}

	var filtered []*schema.SchemaInfo
	for _, t := range all {
		if keep[t.Table] {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) > len(names) {
		Logger.Debug("parent tables added to selection", zap.Int("selected", len(names)), zap.Int("total", len(filtered)))
	}
	return filtered, nil
}

// buildFiles assembles every output file, paths relative to the output dir.
func buildFiles(tables []*schema.SchemaInfo, d dialect.Dialect, emitter scaffold.Emitter, data []dialect.TableRows) ([]writer.File, error) {
	schemaJSON, err := json.MarshalIndent(tables, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	mockJSON, err := json.MarshalIndent(mockDocument(data), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode mock data: %w", err)
	}

	files := []writer.File{
		{Path: path.Join("database", "schema.sql"), Content: []byte(dialect.Script(d, tables, nil))},
		{Path: path.Join("database", "seed.sql"), Content: []byte(sqlFile(dialect.SeedScript(d, data)))},
		{Path: path.Join("types", "types.ts"), Content: []byte(typescript.Generate(tables))},
		{Path: "schema.json", Content: append(schemaJSON, '\n')},
		{Path: "mock.json", Content: append(mockJSON, '\n')},
	}

	code, err := emitter.Emit(tables)
	if err != nil {
		return nil, fmt.Errorf("%s scaffolding failed: %w", emitter.Name(), err)
	}
	return append(files, code...), nil
}

type mockTable struct {
	Table string           `json:"table"`
	Rows  []map[string]any `json:"rows"`
}

// mockDocument turns seeded rows into objects keyed by column, tables in
// safe order.
func mockDocument(data []dialect.TableRows) []mockTable {
	doc := make([]mockTable, 0, len(data))
	for _, tr := range data {
		rows := make([]map[string]any, len(tr.Rows))
		for i, r := range tr.Rows {
			obj := make(map[string]any, len(tr.Columns))
			for j, c := range tr.Columns {
				obj[c] = r[j]
			}
			rows[i] = obj
		}
		doc = append(doc, mockTable{Table: tr.Table, Rows: rows})
	}
	return doc
}

func sqlFile(stmts []string) string {
	if len(stmts) == 0 {
		return ""
	}
	return strings.Join(stmts, "\n") + "\n"
}

func printPlan(tables []*schema.SchemaInfo, d dialect.Dialect, emitter scaffold.Emitter, dir string) {
	Logger.Info("dry-run mode active: no files will be written")
	fmt.Printf("🔍 Analysis Results (%s, %s):\n", d.Name(), emitter.Name())
	for i, t := range tables {
		fmt.Printf("[%02d] %s (Dependencies: %v)\n", i+1, t.Table, t.ForeignTables)
	}

	fmt.Printf("\n📁 Files under %s:\n", dir)
	for _, p := range []string{"database/schema.sql", "database/seed.sql", "types/types.ts", "schema.json", "mock.json"} {
		fmt.Printf("  %s\n", p)
	}
	if files, err := emitter.Emit(tables); err == nil {
		for _, f := range files {
			fmt.Printf("  %s\n", f.Path)
		}
	}
}

func printReport(results []engine.PumpResult, files []writer.File, dir string, elapsed time.Duration) {
	ok := color.New(color.FgGreen, color.Bold)
	warn := color.New(color.FgYellow, color.Bold)

	fmt.Println("\n📊 Summary Report (Dependency Order):")
	total := 0
	for i, r := range results {
		icon := ok.Sprint("✓")
		if r.Status == engine.StatusMissing {
			icon = warn.Sprint("!")
		}
		fmt.Printf("[%s] [%02d/%02d] %-20s : %d rows (Target: %d) - %s\n",
			icon, i+1, len(results), r.TableName, r.Actual, r.Target, r.Status)
		if r.ErrorMsg != "" {
			fmt.Printf("    └ Error: %s\n", r.ErrorMsg)
		}
		total += r.Actual
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("Total Rows: %d\n", total)
	ok.Printf("Wrote %d files to %s\n", len(files), dir)
	Logger.Info("generation done", zap.Duration("elapsed", elapsed))
}
