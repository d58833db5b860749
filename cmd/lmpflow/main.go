package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/engine"
	"github.com/san-kum/lmpflow/internal/mixture"
	"github.com/san-kum/lmpflow/internal/orchestrate"
	"github.com/san-kum/lmpflow/internal/spec"
	"github.com/san-kum/lmpflow/internal/substage"
)

var (
	mixtures  int
	baseSeed  int64
	outDir    string
	engineCmd string
	dryRun    bool
	parallel  int
	verbose   bool
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lmpflow",
		Short: "staged molecular-dynamics run compiler and orchestrator",
	}

	runCmd := &cobra.Command{
		Use:   "run [job.yaml]",
		Short: "compose all stage scripts and run them through the engine",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
	runCmd.Flags().IntVar(&mixtures, "mixtures", 0, "override replica count")
	runCmd.Flags().Int64Var(&baseSeed, "seed", 0, "override base seed")
	runCmd.Flags().StringVar(&outDir, "out", "", "override output directory")
	runCmd.Flags().StringVar(&engineCmd, "engine", "", "override engine command template")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compose scripts without running the engine")
	runCmd.Flags().IntVar(&parallel, "parallel", 0, "max concurrent mixtures (0 = all)")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "debug logging")

	composeCmd := &cobra.Command{
		Use:   "compose [job.yaml]",
		Short: "print the composed script for one mixture without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  composeJob,
	}
	composeCmd.Flags().Int64Var(&baseSeed, "seed", 0, "override base seed")

	validateCmd := &cobra.Command{
		Use:   "validate [job.yaml]",
		Short: "check a job spec without generating anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := spec.LoadJob(args[0]); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "list registered substage kinds",
		Run: func(cmd *cobra.Command, args []string) {
			for _, kind := range substage.DefaultRegistry().Kinds() {
				fmt.Println(kind)
			}
		},
	}

	rootCmd.AddCommand(runCmd, composeCmd, validateCmd, kindsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadJob(path string) (*spec.Job, error) {
	job, err := spec.LoadJob(path)
	if err != nil {
		return nil, err
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.OutDir == "" {
		job.OutDir = "output"
	}
	if mixtures > 0 {
		job.Mixtures = mixtures
	}
	if baseSeed != 0 {
		job.Seed = baseSeed
	}
	if outDir != "" {
		job.OutDir = outDir
	}
	if engineCmd != "" {
		job.Engine = engineCmd
	}
	return job, nil
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func runJob(cmd *cobra.Command, args []string) error {
	job, err := loadJob(args[0])
	if err != nil {
		return err
	}
	if !dryRun && strings.TrimSpace(job.Engine) == "" {
		return fmt.Errorf("no engine command: set engine: in %s or pass --engine", args[0])
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	composer := compile.NewComposer(substage.DefaultRegistry())
	runner := engine.NewExecRunner(job.Engine, logger)
	orch := orchestrate.New(composer, runner, logger)
	orch.DryRun = dryRun
	orch.Parallel = parallel

	results, err := orch.Run(ctx, job)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("%s mixture %d failed at stage %d: %v\n",
				failStyle.Render("✗"), r.Index, r.FailedStage, r.Err)
			continue
		}
		fmt.Printf("%s mixture %d %s\n",
			okStyle.Render("✓"), r.Index, dimStyle.Render(r.Dir))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d mixtures failed", failed, len(results))
	}
	return nil
}

func composeJob(cmd *cobra.Command, args []string) error {
	job, err := loadJob(args[0])
	if err != nil {
		return err
	}
	composer := compile.NewComposer(substage.DefaultRegistry())
	mix := mixture.Context{
		Index:          1,
		Seed:           mixture.DeriveSeed(job.Seed, 1),
		InitialDensity: job.Density.InitialFactor,
		FinalDensity:   job.Density.FinalKgM3,
	}
	for n, stage := range job.Stages {
		res, err := composer.Compose(stage, n+1, mix)
		if err != nil {
			return err
		}
		fmt.Print(res.Doc.Render())
	}
	return nil
}
