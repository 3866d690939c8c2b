// Taskmaster: live project analysis for Simple Task boards.
//
// It spawns the Simple Task MCP server as a one-shot child process per
// tool call, renders Markdown reports from the results, and optionally
// drives an LLM agent over those reports.
//
// Usage:
//
//	taskmaster analyze     # full project health analysis
//	taskmaster standup     # daily standup briefing
//	taskmaster optimize    # workflow optimization opportunities
//	taskmaster risks       # risk assessment
//	taskmaster search <terms>  # search and prioritize matching tasks
//	taskmaster report <name>   # print a raw report without the LLM
//	taskmaster projects    # list registered projects
//	taskmaster serve       # expose the reports as an MCP server (stdio)
//	taskmaster update      # update to the latest version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/aitistra/taskmaster/internal/agent"
	"github.com/aitistra/taskmaster/internal/bridge"
	"github.com/aitistra/taskmaster/internal/config"
	"github.com/aitistra/taskmaster/internal/llm"
	"github.com/aitistra/taskmaster/internal/projects"
	mcpserver "github.com/aitistra/taskmaster/internal/server"
	"github.com/aitistra/taskmaster/internal/tools"
	"github.com/aitistra/taskmaster/internal/updater"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "analyze", "standup", "optimize", "risks", "search":
		err = runAnalysis(os.Args[1], os.Args[2:])
	case "report":
		err = runReport(os.Args[2:])
	case "projects":
		err = runProjects(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "update":
		err = runUpdate()
	case "--version", "-v", "version":
		fmt.Printf("taskmaster v%s\n", mcpserver.Version)
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env bundles everything a subcommand needs.
type env struct {
	cfg     *config.AppConfig
	log     zerolog.Logger
	rep     *tools.Reporter
	project string
}

// setup parses the shared flags and wires config, logging, the process
// bridge, and the reporter.
func setup(command string, args []string) (*env, []string, error) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	project := fs.String("project", "", "project to analyze (default: the server's default project)")
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		return nil, nil, err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	if cfg.Server.Path == "" {
		return nil, nil, fmt.Errorf("server path not configured: set server.path or MCP_SERVER_PATH")
	}

	br := bridge.New(bridge.Config{
		Command: cfg.Server.Command,
		Args:    []string{cfg.EntryPath()},
		Timeout: cfg.Server.Timeout,
	}, log)

	return &env{
		cfg:     cfg,
		log:     log,
		rep:     tools.NewReporter(br, *project, log),
		project: *project,
	}, fs.Args(), nil
}

// runAnalysis drives the LLM agent for one of the canned analyses.
func runAnalysis(command string, args []string) error {
	e, rest, err := setup(command, args)
	if err != nil {
		return err
	}

	apiKey := e.cfg.LLM.APIKey
	if apiKey == "" && stdinIsTerminal() {
		apiKey, err = projects.PromptAPIKey()
		if err != nil {
			return err
		}
	}
	if apiKey == "" {
		return fmt.Errorf("no API key configured: set OPENAI_API_KEY")
	}

	project := e.project
	if project == "" && stdinIsTerminal() {
		registry, err := projects.Load(e.cfg.ProjectsFile())
		if err != nil {
			e.log.Warn().Err(err).Msg("project registry unavailable")
		} else if project, err = projects.Select(registry); err != nil {
			return err
		}
		e.rep = e.rep.WithProject(project)
	}

	client := llm.NewClient(llm.Config{
		APIKey:      apiKey,
		BaseURL:     e.cfg.LLM.BaseURL,
		Model:       e.cfg.LLM.Model,
		Temperature: e.cfg.LLM.Temperature,
		MaxTokens:   e.cfg.LLM.MaxTokens,
		Timeout:     e.cfg.LLM.Timeout,
	}, e.log)
	a := agent.New(client, tools.AgentTools(e.rep), e.log)

	ctx, cancel := signalContext()
	defer cancel()

	go notifyIfOutdated()

	var answer string
	switch command {
	case "analyze":
		answer, err = a.ProjectHealth(ctx, project)
	case "standup":
		answer, err = a.Standup(ctx, project)
	case "optimize":
		answer, err = a.Optimize(ctx, project)
	case "risks":
		answer, err = a.Risks(ctx, project)
	case "search":
		query := strings.Join(rest, " ")
		if query == "" {
			return fmt.Errorf("usage: taskmaster search <terms>")
		}
		answer, err = a.SearchAndPrioritize(ctx, query, project)
	}
	if err != nil {
		return err
	}

	return printMarkdown(answer)
}

// runReport prints one formatter's output directly, without the LLM.
func runReport(args []string) error {
	e, rest, err := setup("report", args)
	if err != nil {
		return err
	}
	if len(rest) < 1 {
		return fmt.Errorf("usage: taskmaster report <overview|blocked|priority|workload|search|project> [terms]")
	}

	ctx, cancel := signalContext()
	defer cancel()

	var out string
	switch rest[0] {
	case "overview":
		out = e.rep.Overview(ctx)
	case "blocked":
		out = e.rep.Blocked(ctx)
	case "priority":
		out = e.rep.HighPriority(ctx)
	case "workload":
		out = e.rep.Workload(ctx)
	case "search":
		query := strings.Join(rest[1:], " ")
		if query == "" {
			return fmt.Errorf("usage: taskmaster report search <terms>")
		}
		out = e.rep.Search(ctx, query)
	case "project":
		out = e.rep.ProjectInfo(ctx)
	default:
		return fmt.Errorf("unknown report %q", rest[0])
	}

	return printMarkdown(out)
}

// runProjects lists the registered projects.
func runProjects(args []string) error {
	fs := flag.NewFlagSet("projects", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		return err
	}

	registry, err := projects.Load(cfg.ProjectsFile())
	if err != nil {
		return err
	}
	if len(registry) == 0 {
		fmt.Println("No projects registered.")
		return nil
	}

	for _, p := range registry {
		fmt.Printf("%s\n  Key: %s\n  Description: %s\n\n", p.DisplayName(), p.DisplayKey(), p.DisplayDescription())
	}
	return nil
}

// runServe exposes the six reports as MCP tools over stdio.
func runServe(args []string) error {
	e, _, err := setup("serve", args)
	if err != nil {
		return err
	}

	// Version notice goes to stderr so it cannot corrupt the stdio
	// transport on stdout.
	go notifyIfOutdated()

	s := mcpserver.New(e.rep, e.log)
	return mcpserver.Serve(s)
}

// runUpdate performs a self-update to the latest release.
func runUpdate() error {
	fmt.Fprintln(os.Stderr, "Checking for updates...")

	result := updater.CheckVersion(mcpserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "Already up to date (v%s)\n", result.CurrentVersion)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Updating v%s -> v%s...\n", result.CurrentVersion, result.LatestVersion)
	if err := updater.SelfUpdate(mcpserver.Version); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Updated to v%s\n", result.LatestVersion)
	return nil
}

// notifyIfOutdated prints a best-effort update notice to stderr.
func notifyIfOutdated() {
	result := updater.CheckVersion(mcpserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s -> v%s (run: taskmaster update)\n  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// printMarkdown renders to the terminal with glamour, falling back to raw
// output when stdout is a pipe.
func printMarkdown(md string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(md)
		return nil
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > 120 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		fmt.Println(md)
		return nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Println(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// signalContext returns a context cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `taskmaster v%s - live project analysis for Simple Task boards

Usage:
  taskmaster <command> [flags]

Analysis commands (require an LLM API key):
  analyze              Full project health analysis
  standup              Daily standup briefing
  optimize             Workflow optimization opportunities
  risks                Risk assessment
  search <terms>       Search and prioritize matching tasks

Data commands:
  report <name>        Print a raw report: overview, blocked, priority,
                       workload, search <terms>, project
  projects             List registered projects

Other commands:
  serve                Run as an MCP server over stdio
  update               Update to the latest version
  version              Print the version
  help                 Show this help

Flags (per command):
  -project <key>       Scope to a project
  -config <path>       Path to config file

Configuration is read from config.yaml (current directory, ~/.taskmaster,
or /etc/taskmaster) and TASKMASTER_* environment variables. The legacy
MCP_SERVER_PATH and OPENAI_API_KEY variables are also honored.
`, mcpserver.Version)
}
