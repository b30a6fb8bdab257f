package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"painelmetas/internal/analysis"
	"painelmetas/internal/audit"
	"painelmetas/internal/dashboard"
	"painelmetas/internal/goalstore"
	"painelmetas/internal/status"
	"painelmetas/internal/workspace"
)

const appName = "painelmetas"

func main() {
	flag.String("workspace", "", "Path to workspace root")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: painel de metas do plano municipal de saúde\n\n", appName)
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [command] [flags]\n\n", appName)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  init      Initialize a new workspace")
		fmt.Fprintln(os.Stderr, "  serve     Start the dashboard server")
		fmt.Fprintln(os.Stderr, "  validate  Check the plan dataset for structural problems")
		fmt.Fprintln(os.Stderr, "  status    Print goal classifications for a period")
		fmt.Fprintln(os.Stderr, "  analyze   Generate the qualitative analysis for a period")
		fmt.Fprintln(os.Stderr, "  export    Write the period summary report to artifacts")
		fmt.Fprintln(os.Stderr, "  help      Show this help")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	workspacePath, remaining, err := extractWorkspaceFlag(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args := remaining
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		flag.Usage()
		return
	}

	switch args[0] {
	case "init":
		if err := runInit(args[1:], workspacePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "serve":
		if err := runServe(args[1:], workspacePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "validate":
		if err := runValidate(args[1:], workspacePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "status":
		if err := runStatus(args[1:], workspacePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "analyze":
		if err := runAnalyze(args[1:], workspacePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "export":
		if err := runExport(args[1:], workspacePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
}

func extractWorkspaceFlag(args []string) (string, []string, error) {
	var workspacePath string
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--workspace" {
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--workspace requires a value")
			}
			workspacePath = args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--workspace=") {
			workspacePath = strings.TrimPrefix(arg, "--workspace=")
			continue
		}
		remaining = append(remaining, arg)
	}
	return workspacePath, remaining, nil
}

func resolveWorkspace(workspacePath string) (*workspace.Workspace, error) {
	if strings.TrimSpace(workspacePath) == "" {
		return nil, fmt.Errorf("--workspace is required")
	}
	return workspace.Resolve(workspacePath)
}

// loadRegistry loads the plan files and normalizes them into the goal
// registry.
func loadRegistry(ws *workspace.Workspace, plansDir string) (*goalstore.Store, error) {
	dir := ws.PlansDir
	if plansDir != "" {
		resolved, err := ws.ResolvePath(plansDir)
		if err != nil {
			return nil, err
		}
		dir = resolved
	}
	years, err := goalstore.LoadFromDir(dir)
	if err != nil {
		return nil, err
	}
	return goalstore.Normalize(years), nil
}

// latestYear picks the newest year in the registry, which always
// includes the synthesized one when any goal exists.
func latestYear(store *goalstore.Store) (string, error) {
	years := store.Years()
	if len(years) == 0 {
		return "", fmt.Errorf("dataset contains no metas")
	}
	return years[len(years)-1], nil
}

func buildGenerator(name, model string) (analysis.Generator, error) {
	switch name {
	case "mock":
		return &analysis.MockGenerator{}, nil
	case "claude", "":
		return analysis.NewClaudeGenerator(model)
	default:
		return nil, fmt.Errorf("unknown generator: %s", name)
	}
}

func runInit(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(workspacePath) == "" {
		return fmt.Errorf("--workspace is required")
	}

	root, err := filepath.Abs(workspacePath)
	if err != nil {
		return fmt.Errorf("resolve workspace: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	ws, err := workspace.Resolve(root)
	if err != nil {
		return err
	}
	if err := ws.EnsureDirs(); err != nil {
		return err
	}
	if err := os.MkdirAll(ws.PlansDir, 0o755); err != nil {
		return fmt.Errorf("create plans dir: %w", err)
	}

	samplePath := filepath.Join(ws.PlansDir, "2024.yml")
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		if err := os.WriteFile(samplePath, []byte(samplePlanYAML), 0o644); err != nil {
			return fmt.Errorf("write sample plan: %w", err)
		}
	}

	fmt.Printf("Workspace initialized at %s\n", ws.Root)
	return nil
}

const samplePlanYAML = `ano: "2024"
diretrizes:
  - diretriz: Fortalecimento da Atenção Primária
    objetivos:
      - objetivo: Ampliar a cobertura da Estratégia Saúde da Família
        metas:
          - id: 1
            titulo: Cobertura populacional da ESF
            polaridade: positiva
            esperado: "80%"
            resultado: apurando
            quadrimestres:
              "1": "74%"
              "2": "77,5%"
          - id: 2
            titulo: Taxa de mortalidade infantil
            polaridade: negativa
            esperado: "10"
            resultado: "9,1"
`

func runServe(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", ":8080", "Listen address")
	plansDir := fs.String("plans-dir", "", "Path to plan YAML directory (default: <workspace>/planos)")
	generatorName := fs.String("generator", "claude", "Analysis generator (claude or mock)")
	model := fs.String("model", "", "Model override for the claude generator")
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: <workspace>/audit/audit.sqlite)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ws, err := resolveWorkspace(workspacePath)
	if err != nil {
		return err
	}
	if err := ws.EnsureDirs(); err != nil {
		return err
	}
	store, err := loadRegistry(ws, *plansDir)
	if err != nil {
		return err
	}
	generator, err := buildGenerator(*generatorName, *model)
	if err != nil {
		return err
	}

	auditPath := ws.AuditDBPath
	if *auditDB != "" {
		if auditPath, err = ws.ResolvePath(*auditDB); err != nil {
			return err
		}
	}

	srv, err := dashboard.New(dashboard.Config{
		Addr:        *addr,
		Workspace:   ws,
		Store:       store,
		Generator:   generator,
		AuditLogger: audit.NewLogger(auditPath),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Serving %d metas on %s (generator: %s)\n", store.Len(), *addr, generator.Name())
	return srv.Run(context.Background())
}

func runValidate(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	plansDir := fs.String("plans-dir", "", "Path to plan YAML directory (default: <workspace>/planos)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ws, err := resolveWorkspace(workspacePath)
	if err != nil {
		return err
	}
	store, err := loadRegistry(ws, *plansDir)
	if err != nil {
		if ves, ok := err.(goalstore.ValidationErrors); ok {
			for _, ve := range ves {
				fmt.Fprintln(os.Stderr, ve.Error())
			}
			return fmt.Errorf("%d structural problem(s) found", len(ves))
		}
		return err
	}

	_ = audit.NewLogger(ws.AuditDBPath).LogEvent(appName, audit.EventDatasetValidated, map[string]any{
		"metas": store.Len(),
		"anos":  store.Years(),
	})
	fmt.Printf("Dataset OK: %d metas across years %s\n", store.Len(), strings.Join(store.Years(), ", "))
	return nil
}

func runStatus(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	plansDir := fs.String("plans-dir", "", "Path to plan YAML directory (default: <workspace>/planos)")
	year := fs.String("year", "", "Year to evaluate (default: latest)")
	period := fs.String("period", "", "Sub-period 1..3 (default: full year)")
	directive := fs.String("directive", "", "Restrict to one directive")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ws, err := resolveWorkspace(workspacePath)
	if err != nil {
		return err
	}
	store, err := loadRegistry(ws, *plansDir)
	if err != nil {
		return err
	}

	selYear := *year
	if selYear == "" {
		if selYear, err = latestYear(store); err != nil {
			return err
		}
	}

	var goals []*goalstore.Goal
	for _, g := range store.Goals() {
		if *directive != "" && g.Directive != *directive {
			continue
		}
		goals = append(goals, g)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMETA\tESPERADO\tRESULTADO\tSITUAÇÃO")
	for _, g := range goals {
		gs := status.Evaluate(g, selYear, *period)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", gs.ID, gs.Title, gs.Expected, gs.Result, gs.Status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sum := status.Summarize(goals, selYear, *period)
	fmt.Printf("\n%s", selYear)
	if *period != "" {
		fmt.Printf(" / %sº quadrimestre", *period)
	}
	fmt.Printf(": %d metas — %d alcançadas, %d não alcançadas, %d outras\n",
		sum.Total, sum.Achieved, sum.NotAchieved, sum.Other)
	return nil
}

func runAnalyze(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	plansDir := fs.String("plans-dir", "", "Path to plan YAML directory (default: <workspace>/planos)")
	year := fs.String("year", "", "Year to analyze (default: latest)")
	period := fs.String("period", "", "Sub-period 1..3 (default: full year)")
	generatorName := fs.String("generator", "claude", "Analysis generator (claude or mock)")
	model := fs.String("model", "", "Model override for the claude generator")
	out := fs.String("out", "", "Output path (default: stdout)")
	timeout := fs.Duration("timeout", 2*time.Minute, "Generation timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ws, err := resolveWorkspace(workspacePath)
	if err != nil {
		return err
	}
	store, err := loadRegistry(ws, *plansDir)
	if err != nil {
		return err
	}
	generator, err := buildGenerator(*generatorName, *model)
	if err != nil {
		return err
	}

	selYear := *year
	if selYear == "" {
		if selYear, err = latestYear(store); err != nil {
			return err
		}
	}

	req := analysis.Request{
		Year:    selYear,
		Period:  *period,
		Summary: status.Summarize(store.Goals(), selYear, *period),
	}
	for _, g := range store.Goals() {
		req.Goals = append(req.Goals, status.Evaluate(g, selYear, *period))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	result, err := generator.Generate(ctx, req)
	if err != nil {
		return err
	}

	_ = audit.NewLogger(ws.AuditDBPath).LogEvent(appName, audit.EventAnalysisGenerated, map[string]any{
		"ano":          selYear,
		"quadrimestre": *period,
		"gerador":      result.Generator,
	})

	if *out == "" {
		fmt.Println(result.Markdown)
		return nil
	}
	outPath, err := ws.ResolvePath(*out)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(result.Markdown), 0o644); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}
	fmt.Printf("Analysis written to %s\n", outPath)
	return nil
}

func runExport(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	plansDir := fs.String("plans-dir", "", "Path to plan YAML directory (default: <workspace>/planos)")
	year := fs.String("year", "", "Year to export (default: latest)")
	period := fs.String("period", "", "Sub-period 1..3 (default: full year)")
	out := fs.String("out", "", "Output path (default: <workspace>/artifacts/resumos/resumo-<year>.json)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ws, err := resolveWorkspace(workspacePath)
	if err != nil {
		return err
	}
	if err := ws.EnsureDirs(); err != nil {
		return err
	}
	store, err := loadRegistry(ws, *plansDir)
	if err != nil {
		return err
	}

	selYear := *year
	if selYear == "" {
		if selYear, err = latestYear(store); err != nil {
			return err
		}
	}

	var goals []status.GoalStatus
	for _, g := range store.Goals() {
		goals = append(goals, status.Evaluate(g, selYear, *period))
	}
	report := status.Report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Summary:     status.Summarize(store.Goals(), selYear, *period),
		Goals:       goals,
	}

	path := status.ReportPathFor(filepath.Join(ws.ArtifactsDir, "resumos"), selYear, *period)
	if *out != "" {
		if path, err = ws.ResolvePath(*out); err != nil {
			return err
		}
	}
	if err := status.WriteReport(path, report); err != nil {
		return err
	}

	_ = audit.NewLogger(ws.AuditDBPath).LogEvent(appName, audit.EventSummaryExported, map[string]any{
		"ano":          selYear,
		"quadrimestre": *period,
		"path":         path,
	})
	fmt.Printf("Report written to %s\n", path)
	return nil
}
