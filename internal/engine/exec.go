package engine

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ScriptPlaceholder marks where the script file name goes in the engine
// command template, e.g. "mpiexec -n 4 lmp -in {script}".
const ScriptPlaceholder = "{script}"

// ExecRunner runs the engine as an isolated subprocess. Cancelling the
// context terminates the process; because every replica runs in its own
// directory with its own ExecRunner call, termination cannot corrupt
// sibling replicas.
type ExecRunner struct {
	Command string // command template; see ScriptPlaceholder
	Logger  *zap.Logger
}

func NewExecRunner(command string, logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{Command: command, Logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, rs RunSpec) error {
	if strings.TrimSpace(r.Command) == "" {
		return &Failure{Script: rs.Script, Err: errors.New("no engine command configured")}
	}
	argv := r.argv(rs.Script)
	r.Logger.Info("starting engine run",
		zap.String("dir", rs.Dir),
		zap.String("script", rs.Script),
		zap.Strings("command", argv))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = rs.Dir

	// Engine stdout/stderr go to a log file next to the script so a failed
	// run can be diagnosed after the fact.
	logPath := filepath.Join(rs.Dir, rs.Script+".log")
	logFile, err := os.Create(logPath)
	if err != nil {
		return &Failure{Script: rs.Script, Err: err}
	}
	defer logFile.Close()
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		r.Logger.Error("engine run failed",
			zap.String("script", rs.Script),
			zap.Int("exit_code", exitCode),
			zap.Error(err))
		return &Failure{Script: rs.Script, ExitCode: exitCode, Err: err}
	}

	var missing []string
	for _, name := range rs.ExpectedOutputs {
		if _, err := os.Stat(filepath.Join(rs.Dir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		r.Logger.Error("engine run incomplete",
			zap.String("script", rs.Script),
			zap.Strings("missing", missing))
		return &Failure{Script: rs.Script, Missing: missing}
	}

	r.Logger.Info("engine run completed", zap.String("script", rs.Script))
	return nil
}

// argv expands the command template with the script name. A template
// without the placeholder gets "-in <script>" appended, the engine's
// conventional invocation.
func (r *ExecRunner) argv(scriptName string) []string {
	command := r.Command
	if strings.Contains(command, ScriptPlaceholder) {
		command = strings.ReplaceAll(command, ScriptPlaceholder, scriptName)
	} else {
		command = command + " -in " + scriptName
	}
	return strings.Fields(command)
}
