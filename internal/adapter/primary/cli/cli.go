package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"namaz-cli/internal/adapter/primary/tui"
	"namaz-cli/internal/adapter/primary/web"
	"namaz-cli/internal/adapter/secondary/aladhan"
	"namaz-cli/internal/adapter/secondary/cache"
	"namaz-cli/internal/adapter/secondary/publish"
	"namaz-cli/internal/adapter/secondary/repository"
	"namaz-cli/internal/domain"
	"namaz-cli/internal/logging"
	"namaz-cli/internal/usecase"
)

var (
	cfgPath   string
	verbosity int
	logFile   string
)

// runOptions are per-session overrides of the saved settings.
type runOptions struct {
	reset bool
	font  string
	theme string
	lang  string
}

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:          "namaz",
		Short:        "Live countdown to the next prayer time",
		Long:         "Terminal countdown, HTTP API and interactive shell for daily prayer times",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCountdown(opts)
		},
	}

	defaultCfg := repository.DefaultPath()
	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "settings file path")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "more verbose logging (-v, -vv, ... up to 4)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log destination while the countdown runs (default <config dir>/namaz.log)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}
	addRunFlags(cmd.Flags(), &opts)

	cmd.AddCommand(
		newRunCmd(),
		newTimesCmd(),
		newServeCmd(),
		newConfigCmd(),
		newShellCmd(),
	)

	return cmd
}

func addRunFlags(fs *pflag.FlagSet, opts *runOptions) {
	fs.BoolVar(&opts.reset, "reset", false, "forget the saved location and ask again")
	fs.StringVar(&opts.font, "font", "", "banner font ("+strings.Join(tui.Fonts, ", ")+")")
	fs.StringVar(&opts.theme, "theme", "", "color theme ("+strings.Join(tui.Themes(), ", ")+")")
	fs.StringVar(&opts.lang, "lang", "", "label language ("+strings.Join(domain.Languages(), ", ")+")")
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Show the live countdown (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCountdown(opts)
		},
	}
	addRunFlags(cmd.Flags(), &opts)
	return cmd
}

func runCountdown(opts runOptions) error {
	repo, err := repository.NewFileRepository(cfgPath)
	if err != nil {
		return err
	}
	if opts.reset {
		if err := repo.Reset(); err != nil {
			return err
		}
		fmt.Println("Saved location cleared.")
	}

	settings, err := repo.Load()
	if err != nil {
		return err
	}
	if !settings.Configured() {
		if settings, err = setupInteractive(settings, repo); err != nil {
			return err
		}
	}
	if settings, err = applyOverrides(settings, opts); err != nil {
		return err
	}

	restoreLogs, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restoreLogs()

	rt, err := openRuntime(settings, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := os.Stdout
	renderer, err := tui.NewRenderer(rawAware(out), tui.Options{
		Font:     settings.Font,
		Theme:    settings.Theme,
		Language: settings.Language,
		NoColor:  !readline.IsTerminal(int(out.Fd())),
	})
	if err != nil {
		return err
	}

	logging.Infof("countdown started for %s/%s", settings.City, settings.Country)
	rt.refresher.Start(ctx)

	var mu sync.Mutex
	draw := func() {
		mu.Lock()
		defer mu.Unlock()
		if err := renderer.Render(rt.countdown.Tick(time.Now())); err != nil {
			logging.Warnf("render: %v", err)
		}
	}

	restoreTerm := tui.WatchStdin(ctx, tui.NewKeyHandler(renderer, cancel, draw))
	defer restoreTerm()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	draw()
	for {
		select {
		case <-ctx.Done():
			logging.Infof("countdown stopped")
			return nil
		case <-ticker.C:
			draw()
		}
	}
}

// rawAware wraps out so frames stay aligned once stdin is switched to raw mode.
func rawAware(out *os.File) io.Writer {
	if readline.IsTerminal(int(os.Stdin.Fd())) {
		return tui.NewRawWriter(out)
	}
	return out
}

func applyOverrides(settings domain.Settings, opts runOptions) (domain.Settings, error) {
	if opts.font != "" {
		if tui.Fonts[tui.FontIndex(opts.font)] != strings.ToLower(opts.font) {
			logging.Warnf("unknown font %q, using %s", opts.font, tui.Fonts[0])
		}
		settings.Font = opts.font
	}
	if opts.theme != "" {
		if _, err := tui.LookupTheme(opts.theme); err != nil {
			return settings, err
		}
		settings.Theme = opts.theme
	}
	if opts.lang != "" {
		lang := strings.ToLower(opts.lang)
		if !domain.HasLanguage(lang) {
			return settings, fmt.Errorf("%w: %s (available: %s)", domain.ErrUnknownLanguage, opts.lang, strings.Join(domain.Languages(), ", "))
		}
		settings.Language = lang
	}
	return settings, nil
}

// redirectLogs sends log output to the log file so it does not tear the live display.
func redirectLogs() (func(), error) {
	path := logFile
	if path == "" {
		path = filepath.Join(filepath.Dir(cfgPath), "namaz.log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logging.SetOutput(f)
	return func() {
		logging.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// runtime holds the wired secondary adapters and use cases for one command.
type runtime struct {
	settings  domain.Settings
	cache     *cache.SQLiteCache
	publisher domain.Publisher
	refresher usecase.RefresherUseCase
	countdown usecase.CountdownUseCase
}

func openRuntime(settings domain.Settings, withPublisher bool) (*runtime, error) {
	if err := settings.Validate(); err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: run `namaz` once or `namaz config set --city ... --country ...`", err)
		}
		return nil, err
	}

	rt := &runtime{settings: settings, publisher: publish.NewNoopPublisher()}

	cfg := usecase.RefresherConfig{
		Provider: aladhan.NewClient(settings.APIBaseURL),
		Settings: settings,
	}
	store, err := cache.Open(settings.CachePath)
	if err != nil {
		logging.Warnf("offline cache disabled: %v", err)
	} else {
		rt.cache = store
		cfg.Cache = store
	}

	if withPublisher {
		pub, err := publish.New(settings.MQTT)
		if err != nil {
			logging.Warnf("mqtt publishing disabled: %v", err)
		} else {
			rt.publisher = pub
		}
	}

	refresher, err := usecase.NewRefresherUseCase(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.refresher = refresher
	rt.countdown = usecase.NewCountdownUseCase(refresher.Snapshot(), rt.publisher, settings.Language)
	return rt, nil
}

func (r *runtime) Close() {
	r.publisher.Close()
	if r.cache != nil {
		if err := r.cache.Close(); err != nil {
			logging.Warnf("close cache: %v", err)
		}
	}
}

func loadSettings() (domain.Settings, error) {
	repo, err := repository.NewFileRepository(cfgPath)
	if err != nil {
		return domain.Settings{}, err
	}
	return repo.Load()
}

func newTimesCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "times",
		Short: "Fetch today's timings once and print them",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			if settings, err = applyOverrides(settings, runOptions{lang: lang}); err != nil {
				return err
			}
			rt, err := openRuntime(settings, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := rt.refresher.RefreshNow(ctx); err != nil {
				if _, ok := rt.refresher.Snapshot().Load(); !ok {
					return fmt.Errorf("fetch timings: %w", err)
				}
				logging.Warnf("showing cached timings: %v", err)
			}

			renderer, err := tui.NewRenderer(cmd.OutOrStdout(), tui.Options{
				Font:     settings.Font,
				Theme:    settings.Theme,
				Language: settings.Language,
				NoColor:  !readline.IsTerminal(int(os.Stdout.Fd())),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderer.Frame(rt.countdown.View(time.Now())))
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "label language ("+strings.Join(domain.Languages(), ", ")+")")
	return cmd
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the countdown over HTTP while refreshing timings",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			rt, err := openRuntime(settings, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt.refresher.Start(ctx)
			go publishLoop(ctx, rt.countdown)

			srv := web.NewServer(rt.countdown, rt.refresher, addr)
			fmt.Printf("Namaz countdown running at http://%s\n", addr)
			logging.Infof("HTTP API: http://%s", addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7070", "HTTP listen address host:port")
	return cmd
}

// publishLoop keeps next-prayer announcements flowing when no terminal is drawing.
func publishLoop(ctx context.Context, countdown usecase.CountdownUseCase) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			countdown.Tick(now)
		}
	}
}
