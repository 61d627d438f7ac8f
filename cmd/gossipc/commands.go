package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"gossipc/internal/analysis"
	"gossipc/internal/blueprint"
	"gossipc/internal/crawler"
	"gossipc/internal/generator"
	"gossipc/internal/git"
	"gossipc/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	outPath       string
	asYAML        bool
	reportFormat  string
	diagramFormat string
	asDiagram     bool
	archiveRun    bool
	sinceRef      string
	historyLimit  int
)

func init() {
	compileCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write output to a file instead of stdout")
	compileCmd.Flags().BoolVar(&asYAML, "yaml", false, "Emit YAML instead of JSON")
	compileCmd.Flags().StringVar(&reportFormat, "report", "", "Emit a construction document instead (markdown)")
	compileCmd.Flags().BoolVar(&archiveRun, "archive", false, "Record the run in the compilation archive")

	diagramCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write output to a file instead of stdout")
	diagramCmd.Flags().StringVarP(&diagramFormat, "format", "f", "", "Diagram format: plantuml or mermaid (default from config)")

	translateCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write output to a file instead of stdout")
	translateCmd.Flags().BoolVar(&asDiagram, "diagram", false, "Emit the schematic diagram instead of JSON")
	translateCmd.Flags().StringVarP(&diagramFormat, "format", "f", "", "Diagram format: plantuml or mermaid (default from config)")

	scanCmd.Flags().StringVar(&sinceRef, "since", "", "Only compile sources changed since this git revision")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list (0 for all)")
}

var compileCmd = &cobra.Command{
	Use:   "compile FILE",
	Short: "Compile a GOSSIP source into a compliant blueprint",
	Long:  "Compile a GOSSIP source into a compliant blueprint. Use - to read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		source, err := readSource(cmd, args[0])
		if err != nil {
			return err
		}

		comp, compileErr := e.compiler.Analyze(source)
		if archiveRun {
			if err := e.archive(cmd, args[0], comp, compileErr); err != nil {
				return err
			}
		}
		if compileErr != nil {
			return compileErr
		}

		var data []byte
		switch {
		case reportFormat == "markdown" || reportFormat == "md":
			doc, err := generator.NewMarkdownGenerator(e.cfg.Diagram.Theme).Generate(comp)
			if err != nil {
				return err
			}
			data = []byte(doc)
		case reportFormat != "":
			return fmt.Errorf("unsupported report format: %s", reportFormat)
		case asYAML:
			data, err = yaml.Marshal(comp.Blueprint)
		default:
			data, err = json.MarshalIndent(comp.Blueprint, "", "  ")
			data = append(data, '\n')
		}
		if err != nil {
			return err
		}
		return writeOutput(cmd, outPath, data)
	},
}

var diagramCmd = &cobra.Command{
	Use:   "diagram FILE",
	Short: "Compile a GOSSIP source and export its blueprint diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		opts, err := e.diagramOptions()
		if err != nil {
			return err
		}
		source, err := readSource(cmd, args[0])
		if err != nil {
			return err
		}

		comp, err := e.compiler.Analyze(source)
		if err != nil {
			return err
		}
		text, err := generator.ExportDiagram(comp.Blueprint, comp.Graph.Edges, opts)
		if err != nil {
			return err
		}
		return writeOutput(cmd, outPath, []byte(text))
	},
}

var translateCmd = &cobra.Command{
	Use:   "translate FILE",
	Short: "Project a GOSSIP source onto schematic nodes without compliance checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		source, err := readSource(cmd, args[0])
		if err != nil {
			return err
		}
		tr, err := e.compiler.Translate(source)
		if err != nil {
			return err
		}

		if asDiagram {
			opts, err := e.diagramOptions()
			if err != nil {
				return err
			}
			title := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			text, err := generator.ExportSchematic(tr.Nodes, tr.Graph.Edges, title, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outPath, []byte(text))
		}

		data, err := json.MarshalIndent(tr.Nodes, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(cmd, outPath, append(data, '\n'))
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Compile every GOSSIP source under a directory and archive the results",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		store, err := e.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "📂 Scanning directory: %s\n", root)

		var changed map[string]git.ChangedFile
		if sinceRef != "" {
			changes, err := git.ChangedFiles(cmd.Context(), root, sinceRef)
			if err != nil {
				return err
			}
			changed = git.Paths(changes)
			fmt.Fprintf(out, "📝 Detected %d changed files since %s.\n", len(changed), sinceRef)
		}

		start := time.Now()
		counts := map[storage.Status]int{}
		cr := crawler.NewCrawler(e.cfg.Scan.Include, e.cfg.Scan.Ignore)
		err = cr.ScanProject(root, func(path, source string) error {
			if changed != nil {
				rel, err := filepath.Rel(root, path)
				if err != nil {
					return err
				}
				change, ok := changed[filepath.ToSlash(rel)]
				if !ok {
					return nil
				}
				defer func() { e.reportImpact(cmd, source, change) }()
			}
			comp, compileErr := e.compiler.Analyze(source)
			rec, err := e.record(path, comp, compileErr)
			if err != nil {
				return err
			}
			if err := store.SaveCompilation(cmd.Context(), rec); err != nil {
				return fmt.Errorf("failed to archive %s: %w", path, err)
			}
			counts[rec.Status]++
			fmt.Fprintf(out, "  %s %s (%s)\n", statusIcon(rec.Status), path, rec.Status)
			return nil
		})
		if err != nil {
			return err
		}

		total := counts[storage.StatusCompliant] + counts[storage.StatusNonCompliant] + counts[storage.StatusFailed]
		fmt.Fprintf(out, "🎉 Scan complete in %v: %d files, %d compliant, %d non-compliant, %d failed. Database: %s\n",
			time.Since(start).Round(time.Millisecond), total,
			counts[storage.StatusCompliant], counts[storage.StatusNonCompliant], counts[storage.StatusFailed],
			e.cfg.Storage.Path)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived compilation runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		store, err := e.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.ListCompilations(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No compilations archived yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tSOURCE\tFAILING")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.CreatedAt.Format(time.RFC3339), r.Status, r.SourcePath, strings.Join(r.FailingChecks, ","))
		}
		return w.Flush()
	},
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show an archived compilation run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		store, err := e.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.GetCompilation(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:      %s\n", rec.ID)
		fmt.Fprintf(out, "Source:  %s\n", rec.SourcePath)
		fmt.Fprintf(out, "Created: %s\n", rec.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(out, "Status:  %s %s\n", statusIcon(rec.Status), rec.Status)
		if len(rec.FailingChecks) > 0 {
			fmt.Fprintf(out, "Failing: %s\n", strings.Join(rec.FailingChecks, ", "))
		}
		if rec.Error != "" {
			fmt.Fprintf(out, "Error:   %s\n", rec.Error)
		}

		bp, err := rec.DecodeBlueprint()
		if err != nil {
			return err
		}
		if bp != nil {
			data, err := json.MarshalIndent(bp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nBlueprint:\n%s\n", data)
		}
		if rec.Diagram != "" {
			fmt.Fprintf(out, "\nDiagram:\n%s", rec.Diagram)
		}
		return nil
	},
}

func (e *env) diagramOptions() (generator.Options, error) {
	opts, err := e.cfg.DiagramOptions()
	if err != nil {
		return opts, err
	}
	if diagramFormat != "" {
		f, err := generator.ParseFormat(diagramFormat)
		if err != nil {
			return opts, err
		}
		opts.Format = f
	}
	return opts, nil
}

// record builds an archive entry, rendering the diagram for compliant runs.
func (e *env) record(path string, comp *blueprint.Compilation, compileErr error) (*storage.Record, error) {
	var diagram string
	if compileErr == nil {
		opts, err := e.cfg.DiagramOptions()
		if err != nil {
			return nil, err
		}
		diagram, err = generator.ExportDiagram(comp.Blueprint, comp.Graph.Edges, opts)
		var encErr *generator.EncodingError
		if errors.As(err, &encErr) {
			compileErr = err
		} else if err != nil {
			return nil, err
		}
	}
	if compileErr != nil {
		e.logger.Info("compilation failed", zap.String("path", path), zap.Error(compileErr))
	}
	return storage.NewRecord(path, comp, compileErr, diagram)
}

func (e *env) archive(cmd *cobra.Command, path string, comp *blueprint.Compilation, compileErr error) error {
	store, err := e.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := e.record(path, comp, compileErr)
	if err != nil {
		return err
	}
	if err := store.SaveCompilation(cmd.Context(), rec); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "💾 Archived as %s\n", rec.ID)
	return nil
}

// reportImpact lists the actors a diff touched. It uses the translation
// path so that non-compliant sources still get a connection graph.
func (e *env) reportImpact(cmd *cobra.Command, source string, change git.ChangedFile) {
	tr, err := e.compiler.Translate(source)
	if err != nil {
		return
	}
	direct, indirect := analysis.NewAnalyzer(tr.Graph).AnalyzeImpact(change).Names()
	if len(direct) == 0 {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "      changed: %s\n", strings.Join(direct, ", "))
	if len(indirect) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "      senders: %s\n", strings.Join(indirect, ", "))
	}
}

func statusIcon(s storage.Status) string {
	switch s {
	case storage.StatusCompliant:
		return "✅"
	case storage.StatusNonCompliant:
		return "⚠️"
	default:
		return "❌"
	}
}
