package di

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.uber.org/dig"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"minigrep/internal/app"
	"minigrep/internal/config"
	"minigrep/internal/logger"
	"minigrep/internal/pattern"
	"minigrep/internal/search"
)

// Program — собранное приложение: fx-граф и готовый к запуску Runner
type Program struct {
	fxApp  *fx.App
	Runner *app.Runner
	Logger *zap.Logger
}

// Build разбирает аргументы, создаёт логгер и собирает граф зависимостей.
// Конфиг и логгер создаются до fx, чтобы ошибки разбора не попадали в лог fx.
// out — для найденных строк, errOut — для консольного лога.
func Build(args []string, out, errOut io.Writer) (*Program, error) {
	settings, err := config.SettingsFromEnv()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Parse(args, *settings)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logger.ProvideLogger(cfg, errOut)
	if err != nil {
		return nil, err
	}
	p, err := build(cfg, log, closeLog, out)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	return p, nil
}

func build(cfg *config.Config, log *zap.Logger, closeLog func() error, out io.Writer) (*Program, error) {
	log = log.With(zap.String("run_id", uuid.NewString()))

	p := &Program{Logger: log}
	p.fxApp = fx.New(
		fx.Supply(cfg, log),
		fx.WithLogger(eventLogger),
		fx.Provide(
			func() io.Writer { return out },
			pattern.NewSet,
			search.NewSearcher,
			func(s *search.Searcher) app.FileSearcher {
				return s
			},
			app.NewRunner,
		),
		fx.Invoke(func(lc fx.Lifecycle) {
			registerHooks(lc, closeLog)
		}),
		fx.Populate(&p.Runner),
	)
	if err := p.fxApp.Err(); err != nil {
		// fx оборачивает ошибку конструктора, наружу отдаём исходную
		return nil, dig.RootCause(err)
	}
	return p, nil
}

// eventLogger: события fx (в том числе ошибки конструкторов) видны только на уровне debug,
// иначе в stderr остаётся одна строка "Application error"
func eventLogger(l *zap.Logger) fxevent.Logger {
	if !l.Core().Enabled(zapcore.DebugLevel) {
		return fxevent.NopLogger
	}
	return &fxevent.ZapLogger{Logger: l}
}

func registerHooks(lc fx.Lifecycle, closeLog func() error) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// сбросить буфер и закрыть файл логов в prod
			return closeLog()
		},
	})
}

// Run выполняет поиск между Start и Stop жизненного цикла fx
func (p *Program) Run(ctx context.Context) error {
	if err := p.fxApp.Start(ctx); err != nil {
		return err
	}
	runErr := p.Runner.Run()
	stopErr := p.fxApp.Stop(ctx)
	if runErr != nil {
		return runErr
	}
	return stopErr
}
