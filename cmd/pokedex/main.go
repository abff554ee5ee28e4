package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/glabrego/pokedex-cli/internal/app"
	"github.com/glabrego/pokedex-cli/internal/config"
	"github.com/glabrego/pokedex-cli/internal/derive"
	"github.com/glabrego/pokedex-cli/internal/logging"
	"github.com/glabrego/pokedex-cli/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Globals are flags shared by every command. Empty values leave the
// configured setting alone.
type Globals struct {
	APIBaseURL string `help:"Catalog service base URL." name:"api-base-url" placeholder:"URL"`
	LogPath    string `help:"Write JSON logs to this file." placeholder:"PATH"`
	LogLevel   string `help:"Log level (debug, info, warn, error)." placeholder:"LEVEL"`
	NoImages   bool   `help:"Disable inline sprite previews."`
	Plain      bool   `help:"Force plain text output even if stdout is a TTY."`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	List    ListCmd          `cmd:"" default:"withargs" help:"Browse the catalog as a searchable list."`
	Gallery GalleryCmd       `cmd:"" help:"Browse the catalog filtered by type."`
	Show    ShowCmd          `cmd:"" help:"Show one Pokémon by number or name."`
}

type ListCmd struct {
	Search string `help:"Initial search text." short:"s"`
	IDs    bool   `help:"Also match catalog numbers." name:"ids"`
	Sort   string `help:"Sort key." enum:"id,name" default:"id"`
	Desc   bool   `help:"Reverse the sort order."`
	Limit  int    `help:"Number of entries to load (0 keeps the configured value)."`
}

func (c *ListCmd) Run(g *Globals) error {
	key, _ := derive.ParseSortKey(c.Sort)
	query := derive.Query{Text: c.Search, MatchID: c.IDs, Key: key, Descending: c.Desc}
	return runSession(g, func(cfg *config.Config) {
		if c.Limit > 0 {
			cfg.ListLimit = c.Limit
		}
	}, func(ctx context.Context, svc *app.Service, cfg config.Config, out io.Writer) error {
		return writeList(ctx, out, svc, cfg.ListLimit, query)
	}, tui.Options{StartMode: tui.ModeList, Query: query})
}

type GalleryCmd struct {
	Types []string `help:"Preselect types; every one must match." short:"t" sep:","`
	Limit int      `help:"Number of entries to show (0 keeps the configured value)."`
}

func (c *GalleryCmd) Run(g *Globals) error {
	return runSession(g, func(cfg *config.Config) {
		if c.Limit > 0 {
			cfg.GalleryLimit = c.Limit
		}
	}, func(ctx context.Context, svc *app.Service, cfg config.Config, out io.Writer) error {
		return writeGallery(ctx, out, svc, cfg.GalleryLimit, c.Types)
	}, tui.Options{StartMode: tui.ModeGallery, Selected: c.Types})
}

type ShowCmd struct {
	Key string `arg:"" name:"id-or-name" help:"Decimal catalog number or name."`
}

func (c *ShowCmd) Validate() error {
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("id or name must not be empty")
	}
	return nil
}

func (c *ShowCmd) Run(g *Globals) error {
	return runSession(g, nil, func(ctx context.Context, svc *app.Service, _ config.Config, out io.Writer) error {
		return writeDetail(ctx, out, svc, c.Key)
	}, tui.Options{StartMode: tui.ModeDetail, StartKey: c.Key})
}

type plainFunc func(ctx context.Context, svc *app.Service, cfg config.Config, out io.Writer) error

// runSession opens one catalog session, then either prints plain output or
// runs the TUI, and always tears the session down.
func runSession(g *Globals, tweak func(*config.Config), plain plainFunc, opts tui.Options) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if tweak != nil {
		tweak(&cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger init error: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("session init error: %w", err)
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			logger.Warn("session close failed", zap.Error(cerr))
		}
	}()

	if g.Plain || !stdoutIsTerminal() {
		return plain(ctx, svc, cfg, os.Stdout)
	}

	opts.ListLimit = cfg.ListLimit
	opts.GalleryLimit = cfg.GalleryLimit
	opts.InlineImagePreview = cfg.InlineImagePreview
	program := tea.NewProgram(tui.NewModel(svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func loadConfig(g *Globals) (config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	applyGlobals(&cfg, g)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

func applyGlobals(cfg *config.Config, g *Globals) {
	if v := strings.TrimSpace(g.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(g.LogPath); v != "" {
		cfg.LogPath = v
	}
	if v := strings.TrimSpace(g.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if g.NoImages {
		cfg.InlineImagePreview = false
	}
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	base := []kong.Option{
		kong.Name("pokedex"),
		kong.Description("Browse the Pokémon catalog from the terminal."),
		kong.UsageOnError(),
		kong.Vars{"version": version + " " + commit},
	}
	return kong.New(cli, append(base, options...)...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(2)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
