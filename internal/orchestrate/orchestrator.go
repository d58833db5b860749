// Package orchestrate drives N mixture replicas times M stages: composing
// every stage script, handing it to the engine, and carrying the structural
// configuration file from one stage to the next.
package orchestrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/engine"
	"github.com/san-kum/lmpflow/internal/mixture"
	"github.com/san-kum/lmpflow/internal/spec"
	"github.com/san-kum/lmpflow/internal/trajparse"
)

// RestartFile is the structural handoff written after each stage; the next
// stage's initialize substage starts from it.
const RestartFile = trajparse.RestartFile

type Orchestrator struct {
	composer *compile.Composer
	runner   engine.Runner
	logger   *zap.Logger

	// DryRun composes and writes scripts but skips engine execution.
	DryRun bool

	// Parallel caps how many mixtures run at once; 0 means all at once.
	Parallel int
}

func New(composer *compile.Composer, runner engine.Runner, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{composer: composer, runner: runner, logger: logger}
}

// MixtureResult is the outcome of one replica. A failed stage aborts that
// replica's remaining stages but never its siblings.
type MixtureResult struct {
	Index       int
	Dir         string
	Scripts     []string
	FailedStage int // 1-based; 0 when the replica completed
	Err         error
}

// Run executes the whole job. Replicas run concurrently: every composition
// owns its context and directory exclusively, so no locking is needed.
func (o *Orchestrator) Run(ctx context.Context, job *spec.Job) ([]MixtureResult, error) {
	jobDir := filepath.Join(job.OutDir, job.ID)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return nil, err
	}
	// Persist the authored spec next to what it generated.
	if err := job.Save(filepath.Join(jobDir, "job.yaml")); err != nil {
		return nil, err
	}

	slots := o.Parallel
	if slots <= 0 || slots > job.Mixtures {
		slots = job.Mixtures
	}
	sem := make(chan struct{}, slots)

	results := make([]MixtureResult, job.Mixtures)
	var wg sync.WaitGroup
	for i := 0; i < job.Mixtures; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = o.runMixture(ctx, job, jobDir, idx+1)
		}(i)
	}
	wg.Wait()
	return results, nil
}

func (o *Orchestrator) runMixture(ctx context.Context, job *spec.Job, jobDir string, index int) MixtureResult {
	dir := filepath.Join(jobDir, fmt.Sprintf("mixture_%d", index))
	res := MixtureResult{Index: index, Dir: dir}
	if err := os.MkdirAll(dir, 0755); err != nil {
		res.Err = err
		return res
	}

	mix := mixture.Context{
		Index:          index,
		Seed:           mixture.DeriveSeed(job.Seed, index),
		Dir:            dir,
		InitialDensity: job.Density.InitialFactor,
		FinalDensity:   job.Density.FinalKgM3,
	}
	log := o.logger.With(zap.Int("mixture", index), zap.Int64("seed", mix.Seed))

	for n, stage := range job.Stages {
		stageNum := n + 1
		compiled, err := o.composer.Compose(stage, stageNum, mix)
		if err != nil {
			res.FailedStage = stageNum
			res.Err = err
			log.Error("stage composition failed", zap.Int("stage", stageNum), zap.Error(err))
			return res
		}

		scriptName := fmt.Sprintf("stage_%d.in", stageNum)
		scriptPath := filepath.Join(dir, scriptName)
		if err := os.WriteFile(scriptPath, []byte(compiled.Doc.Render()), 0644); err != nil {
			res.FailedStage = stageNum
			res.Err = err
			return res
		}
		res.Scripts = append(res.Scripts, scriptPath)
		log.Info("stage script composed", zap.Int("stage", stageNum), zap.String("script", scriptName))

		if o.DryRun {
			continue
		}

		rs := engine.RunSpec{Dir: dir, Script: scriptName}
		if compiled.LastTrajectory != "" {
			rs.ExpectedOutputs = append(rs.ExpectedOutputs, compiled.LastTrajectory)
		}
		if compiled.LastSamples != "" {
			rs.ExpectedOutputs = append(rs.ExpectedOutputs, compiled.LastSamples)
		}
		if err := o.runner.Run(ctx, rs); err != nil {
			res.FailedStage = stageNum
			res.Err = err
			log.Error("engine stage failed", zap.Int("stage", stageNum), zap.Error(err))
			return res
		}

		if compiled.LastTrajectory != "" {
			if err := o.handoff(dir, compiled.LastTrajectory); err != nil {
				res.FailedStage = stageNum
				res.Err = err
				log.Error("stage handoff failed", zap.Int("stage", stageNum), zap.Error(err))
				return res
			}
		}
	}
	log.Info("mixture completed", zap.Int("stages", len(job.Stages)))
	return res
}

// handoff extracts the last trajectory frame of the finished stage and
// rewrites it, timestep zeroed, as the next stage's structural input.
func (o *Orchestrator) handoff(dir, trajectory string) error {
	frame, err := trajparse.LastFrame(filepath.Join(dir, trajectory))
	if err != nil {
		return err
	}
	return frame.WriteRestart(filepath.Join(dir, RestartFile))
}
