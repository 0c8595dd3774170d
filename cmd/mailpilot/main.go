// Package main provides the mailpilot command, which sends an email through
// a real browser from a plain-English instruction such as
//
//	mailpilot send an email to alice@example.com saying "lunch at noon?"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/mailpilot/pkg/agent"
	"github.com/entrhq/mailpilot/pkg/config"
	"github.com/entrhq/mailpilot/pkg/instruction"
	"github.com/entrhq/mailpilot/pkg/llm"
	"github.com/entrhq/mailpilot/pkg/llm/backend"
	"github.com/entrhq/mailpilot/pkg/logging"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	EnvFile     string
	Quiet       bool
	InitConfig  bool
	ShowVersion bool
	Instruction instruction.Instruction
}

func main() {
	cliConfig, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	if cliConfig.ShowVersion {
		fmt.Printf("mailpilot v%s\n", version)
		return
	}

	if cliConfig.InitConfig {
		path, err := initConfig(cliConfig.ConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mailpilot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	if cliConfig.Instruction == "" {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Interrupt is the way out of a manual login wait
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go watchSignals(sigChan, cancel, signal.Stop, os.Stdout)

	if err := run(ctx, cliConfig); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "mailpilot: %v\n", err)
		os.Exit(1)
	}
	cancel()
}

// watchSignals cancels the run on the first signal and then stops relaying,
// so a second interrupt terminates the process.
func watchSignals(sigChan chan os.Signal, cancel context.CancelFunc, stop func(chan<- os.Signal), out io.Writer) {
	<-sigChan
	fmt.Fprintln(out, "\nCancelling...")
	cancel()
	stop(sigChan)
}

// parseFlags parses args; the remaining words form the instruction.
func parseFlags(args []string, output io.Writer) (*CLIConfig, error) {
	cliConfig := &CLIConfig{}

	fs := flag.NewFlagSet("mailpilot", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cliConfig.ConfigFile, "config", "", "Path to configuration file (YAML, default ~/.mailpilot/config.yaml)")
	fs.StringVar(&cliConfig.EnvFile, "env-file", ".env", "Path to a .env file with credentials and API keys")
	fs.BoolVar(&cliConfig.Quiet, "quiet", false, "Only write progress to the log file")
	fs.BoolVar(&cliConfig.InitConfig, "init-config", false, "Write a default configuration file and exit")
	fs.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")
	fs.Usage = func() { usage(output) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cliConfig.Instruction = instruction.Join(fs.Args())
	return cliConfig, nil
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "mailpilot - send email from a plain-English instruction\n\n")
	fmt.Fprintf(w, "Usage: mailpilot [options] <instruction...>\n\n")
	fmt.Fprintf(w, "Options:\n")
	fmt.Fprintf(w, "  -config string    Path to configuration file (YAML)\n")
	fmt.Fprintf(w, "  -env-file string  Path to a .env file (default \".env\")\n")
	fmt.Fprintf(w, "  -quiet            Only write progress to the log file\n")
	fmt.Fprintf(w, "  -init-config      Write a default configuration file and exit\n")
	fmt.Fprintf(w, "  -version          Show version and exit\n")
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  mailpilot send an email to alice@example.com saying \"Meeting moved to 3pm.\"\n")
	fmt.Fprintf(w, "  mailpilot -config ./mailpilot.yaml write to bob@example.com saying 'see you soon'\n\n")
	fmt.Fprintf(w, "Environment:\n")
	fmt.Fprintf(w, "  EMAIL, PASSWORD          automated login credentials\n")
	fmt.Fprintf(w, "  GOOGLE_API_KEY           subject generation with Gemini\n")
	fmt.Fprintf(w, "  OPENAI_API_KEY           subject generation with an OpenAI-compatible API\n")
}

// initConfig writes the default configuration to path, or to the default
// location when path is empty. An existing file is left alone.
func initConfig(path string) (string, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if err := config.DefaultConfig().Save(path, false); err != nil {
		return "", err
	}
	return path, nil
}

// run executes one instruction
func run(ctx context.Context, cliConfig *CLIConfig) error {
	if err := config.LoadDotEnv(cliConfig.EnvFile); err != nil {
		return err
	}

	cfg, err := config.Load(cliConfig.ConfigFile, os.Getenv)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger("mailpilot")
	if err != nil {
		logger.Warnf("file logging unavailable: %v", err)
	}
	defer logger.Close()
	if !cliConfig.Quiet && cfg.Logging.Verbosity != "quiet" {
		logger.SetConsole(os.Stdout)
	}
	logger.Debugf("mailpilot v%s, run %s", version, logger.RunID())

	var provider llm.Provider
	p, err := backend.New(ctx, cfg.LLM)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Debugf("subject generation disabled: %v", err)
	case err != nil:
		logger.Warnf("subject generation unavailable: %v", err)
	default:
		provider = p
		logger.Debugf("subject generation with %s", provider.GetModel())
	}

	a, err := agent.New(cfg, agent.WithLLM(provider), agent.WithLogger(logger))
	if err != nil {
		return err
	}

	result, err := a.Run(ctx, cliConfig.Instruction)
	if err != nil {
		logger.Debugf("run failed: %v", err)
		if path := logger.LogPath(); path != "" {
			return fmt.Errorf("%w (log: %s)", err, path)
		}
		return err
	}

	logger.Debugf("sent to %q via %s login, subject from %s", result.Fields.Recipient, result.Auth, result.Subject.Stage)
	return nil
}
