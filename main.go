package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"plotboard/internal/config"
	"plotboard/internal/engine"
	"plotboard/internal/geom"
	"plotboard/internal/importer"
	"plotboard/internal/logging"
	"plotboard/internal/prefs"
	"plotboard/internal/workflow"
)

var (
	configPath  string
	scriptPath  string
	importPaths []string
	logLevel    string
	noScript    bool
)

var rootCmd = &cobra.Command{
	Use:   "plotboard",
	Short: "Infinite canvas for planning a product with an agent",
	Long: `plotboard opens an infinite canvas in the terminal. A scripted agent
workflow fills it with documents, screens, tables, APIs and tasks while you
pan, zoom, select and rearrange them.

Examples:
  plotboard
  plotboard --script plan.yaml
  plotboard --import brief.md --import notes.md
  plotboard export --png board.png`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard(scriptPath)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Open the canvas and play a workflow script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVar(&importPaths, "import", nil, "Markdown or text files to place on the canvas")
	rootCmd.Flags().StringVar(&scriptPath, "script", "", "Workflow script (default: built-in demo)")
	rootCmd.Flags().BoolVar(&noScript, "no-script", false, "Start with an empty canvas")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session is everything a canvas run needs, headless or not.
type session struct {
	cfg    *config.Config
	log    *slog.Logger
	closer io.Closer
	engine *engine.Engine
	runner *workflow.Runner
}

func (s *session) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, err
}

// openSession loads config, opens the log, builds the engine and the runner
// for script (the demo when empty, none when skip is set) and imports files.
func openSession(script string, skip bool) (*session, error) {
	cfg, cfgErr := loadConfig()
	s := &session{cfg: cfg, log: logging.Discard()}
	if cfg.Log.File != "" {
		log, f, err := logging.New(cfg.Log.File, logging.ParseLevel(cfg.Log.Level))
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		s.log, s.closer = log, f
	}
	if cfgErr != nil {
		s.log.Warn("config ignored", "err", cfgErr)
	}

	s.engine = engine.New(engine.OptionsFromConfig(cfg), s.log)

	if !skip {
		sc := workflow.DemoScript()
		if script != "" {
			loaded, err := workflow.LoadScript(script)
			if err != nil {
				s.Close()
				return nil, err
			}
			sc = loaded
		}
		s.runner = workflow.NewRunner(sc, s.engine, nil, s.log)
	}

	if len(importPaths) > 0 {
		res := importer.Files(s.engine, importPaths, geom.Point{}, s.log)
		if len(res.Skipped) > 0 {
			s.log.Warn("some files were not imported", "skipped", len(res.Skipped))
		}
		s.engine.Commit()
	}
	return s, nil
}

func runBoard(script string) error {
	s, err := openSession(script, noScript)
	if err != nil {
		return err
	}
	defer s.Close()

	store := prefs.Open(config.Dir())
	m := initialModel(s, store)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		s.log.Error("program exited", "err", err)
		return err
	}
	return nil
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = "› "
	return ti
}

func initialModel(s *session, store *prefs.Store) model {
	m := model{
		engine:     s.engine,
		runner:     s.runner,
		prefs:      store,
		config:     s.cfg,
		log:        s.log,
		mode:       ModeCanvas,
		chat:       newInput("Message the agent", 500),
		rename:     newInput("Section title", 80),
		pinContent: newInput("Pin note", 200),
		inbox:      &inbox{},
	}
	box := m.inbox
	s.engine.OnPinPlaced(func(id string) { box.push(pinPlacedMsg(id)) })
	s.engine.OnMention(func(id string) { box.push(mentionMsg(id)) })
	if m.runner != nil {
		m.runner.OnMessage = func(msg workflow.Message) { box.push(runnerMsg(msg)) }
	}
	return m
}
