// Command reactkit dispatches one model response against the built-in tools.
//
// With --catalog it prints the system prompt describing the tools. Otherwise it
// reads a model response from --input (or stdin) and prints the next prompt
// text: the tool observation, a correction for the model, or the decoded final
// answer. Tool failures exit with status 1.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"

	"github.com/skosovsky/reactkit"
	"github.com/skosovsky/reactkit/ext/reactotel"
	"github.com/skosovsky/reactkit/internal/config"
	"github.com/skosovsky/reactkit/toolkits/calctool"
	"github.com/skosovsky/reactkit/toolkits/timetool"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if errors.Is(err, config.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "reactkit:", err)
		return 2
	}
	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		fmt.Fprintln(stderr, "reactkit:", err)
		return 2
	}

	input := stdin
	if cfg.Input != "" && cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			logger.Error("open input", "path", cfg.Input, "error", err)
			return 1
		}
		defer f.Close()
		input = f
	}

	reg, err := newRegistry(cfg, logger, stdin, stderr)
	if err != nil {
		logger.Error("build registry", "error", err)
		return 1
	}

	if cfg.Catalog {
		fmt.Fprintln(stdout, systemPrompt(reg, cfg))
		return 0
	}

	text, err := io.ReadAll(input)
	if err != nil {
		logger.Error("read input", "error", err)
		return 1
	}
	outcome, err := reg.Dispatch(ctx, string(text))
	if err != nil {
		if prompt, ok := reactkit.CorrectionPrompt(err); ok {
			logger.Warn("model response rejected", "error", err)
			fmt.Fprintln(stdout, prompt)
			return 0
		}
		logger.Error("dispatch", "error", err)
		return 1
	}
	if outcome.Done() {
		fmt.Fprintln(stdout, reactkit.FormatOutput(outcome.Answer))
		return 0
	}
	logger.Debug("tool invoked", "call_id", outcome.CallID, "tool", outcome.ToolUse.Tool)
	fmt.Fprintln(stdout, outcome.Observation)
	return 0
}

func newRegistry(cfg *config.Config, logger *slog.Logger, stdin io.Reader, stderr io.Writer) (*reactkit.Registry, error) {
	toolOpts := func(name string) []reactkit.ToolOption {
		if slices.Contains(cfg.RequireApproval, name) {
			return []reactkit.ToolOption{reactkit.WithApproval()}
		}
		return nil
	}
	calc, err := calctool.Calculator(
		calctool.WithMaxSteps(cfg.MaxSteps),
		calctool.WithToolOptions(toolOpts(calctool.Name)...),
	)
	if err != nil {
		return nil, err
	}
	date, err := timetool.CurrentDate(timetool.WithToolOptions(toolOpts(timetool.Name)...))
	if err != nil {
		return nil, err
	}

	var approver reactkit.Approver
	switch cfg.Approve {
	case config.ApproveAlways:
		approver = reactkit.AlwaysApprove
	case config.ApproveNever:
		approver = reactkit.NeverApprove
	default:
		approver = reactkit.NewConsoleApprover(stdin, stderr)
	}

	return reactkit.NewRegistry([]reactkit.Tool{calc, date},
		reactkit.WithDefaultTimeout(cfg.Timeout),
		reactkit.WithApprover(approver),
		reactkit.WithAnswerSpec(reactkit.AnswerSpec{Type: reactkit.OutputType(cfg.Answer)}),
		reactkit.WithMiddleware(reactotel.Middleware(), reactkit.WithLogging(logger)),
	)
}

func systemPrompt(reg *reactkit.Registry, cfg *config.Config) string {
	prompt := reactkit.SystemPrompt(reg.Catalog())
	if t := reactkit.OutputType(cfg.Answer); t != reactkit.OutputString {
		prompt += "\n\n" + reactkit.AnswerInstructions(reactkit.AnswerSpec{Type: t})
	}
	return prompt
}
