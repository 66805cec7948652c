package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hookgate/hookgate/internal/config"
	"github.com/hookgate/hookgate/internal/engine"
	"github.com/hookgate/hookgate/internal/hookio"
	"github.com/hookgate/hookgate/internal/report"
	"github.com/hookgate/hookgate/internal/runlog"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the checks applicable to the current project",
		Long: `Run detects the project's ecosystems, executes the applicable external
checks sequentially, and reports the aggregate result.

The --event flag selects the lifecycle point's defaults (mode, timeout,
check families); --mode and --timeout override them. A harness payload is
read from stdin unless --no-stdin is given:

  echo '{"tool_input":{"file_path":"src/app.py"}}' | hookgate run --event post-edit
  echo '{"task_subject":"add feature"}' | hookgate run --event post-task`,
		Args:          cobra.NoArgs,
		RunE:          runRun,
		SilenceErrors: true,
	}

	cmd.Flags().String("event", config.EventPostTask, "Lifecycle event: post-edit | post-task | session-stop")
	cmd.Flags().String("mode", "", "Override the event's reporting mode: advisory | blocking")
	cmd.Flags().Int("timeout", 0, "Override the per-tool timeout in seconds")
	cmd.Flags().String("dir", "", "Project directory (default: payload cwd, then .)")
	cmd.Flags().String("report", "", "Write a Markdown report to this path")
	cmd.Flags().String("log", "", "Append an NDJSON run record to this path")
	cmd.Flags().String("format", "text", "Output format: text | json")
	cmd.Flags().Bool("no-stdin", false, "Do not read a harness payload from stdin")

	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	event, _ := cmd.Flags().GetString("event")
	modeFlag, _ := cmd.Flags().GetString("mode")
	timeoutFlag, _ := cmd.Flags().GetInt("timeout")
	dirFlag, _ := cmd.Flags().GetString("dir")
	reportFlag, _ := cmd.Flags().GetString("report")
	logFlag, _ := cmd.Flags().GetString("log")
	format, _ := cmd.Flags().GetString("format")
	noStdin, _ := cmd.Flags().GetBool("no-stdin")

	var payload hookio.Payload
	if !noStdin {
		payload = hookio.Decode(cmd.InOrStdin())
	}

	dir := dirFlag
	if dir == "" {
		dir = payload.CWD
	}
	if dir == "" {
		dir = "."
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	ev, err := cfg.EventFor(event)
	if err != nil {
		return err
	}

	modeStr := ev.Mode
	if modeFlag != "" {
		modeStr = modeFlag
	}
	mode, err := report.ParseMode(modeStr)
	if err != nil {
		return err
	}

	// Only per-edit hooks narrow checks to the edited file's ecosystem.
	filePath := ""
	if event == config.EventPostEdit {
		filePath = payload.FilePath
	}

	opts := cfg.CheckOptions(ev, filePath)
	if timeoutFlag > 0 {
		d := time.Duration(timeoutFlag) * time.Second
		opts.TestTimeout, opts.ToolTimeout = d, d
	}

	res := engine.Run(cmd.Context(), dir, opts)

	if reportPath := firstNonEmpty(reportFlag, cfg.Report); reportPath != "" {
		if err := report.WriteMarkdown(reportPath, res.Aggregate, res.Profile, time.Now()); err != nil {
			return err
		}
	}

	if logPath := firstNonEmpty(logFlag, cfg.Log); logPath != "" {
		if err := appendRunLog(logPath, event, mode, res); err != nil {
			return err
		}
	}

	reporter := &report.Reporter{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}

	var code int
	switch format {
	case "json":
		code, err = reporter.ReportJSON(res.Aggregate, mode)
		if err != nil {
			return err
		}
	case "text":
		code = reporter.Report(res.Aggregate, mode)
	default:
		return fmt.Errorf("invalid format %q (want text or json)", format)
	}

	if code == report.ExitBlocked {
		return &BlockedError{Failed: len(res.Aggregate.Blocking())}
	}
	return nil
}

func appendRunLog(path, event string, mode report.Mode, res engine.Result) error {
	logger, err := runlog.Open(path)
	if err != nil {
		return err
	}
	defer logger.Close()

	return logger.Log(runlog.Record{
		Timestamp:  time.Now().UTC(),
		Event:      event,
		Mode:       string(mode),
		Ecosystems: res.Profile.Ecosystems(),
		Blocked:    res.Aggregate.Blocked(),
		Outcomes:   res.Aggregate.Outcomes,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
