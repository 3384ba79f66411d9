package logger

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"minigrep/internal/config"
)

// LogDir — каталог для логов в режиме prod
var LogDir = "logs"

// ProvideLogger создаёт логгер и функцию, которую нужно вызвать при завершении.
// Консольный лог пишется в errOut: stdout занят найденными строками.
func ProvideLogger(cfg *config.Config, errOut io.Writer) (*zap.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(levelName(cfg.Settings.LogLevel))
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Settings.Env {
	case config.EnvProd:
		// путь до файла логов
		logFile := filepath.Join(LogDir, "app.log")

		if err := os.MkdirAll(LogDir, 0755); err != nil {
			return nil, nil, err
		}

		file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}

		writer := zapcore.AddSync(file)

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			writer,
			level,
		)

		logger := zap.New(core)
		closeLog := func() error {
			_ = logger.Sync()
			return file.Close()
		}
		return logger, closeLog, nil

	default:
		// без стектрейсов: ошибка всё равно печатается одной строкой "Application error"
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(errOut),
			level,
		)
		logger := zap.New(core, zap.Development(), zap.AddCaller())
		closeLog := func() error {
			// Sync на терминале часто возвращает EINVAL, это не ошибка поиска
			_ = logger.Sync()
			return nil
		}
		return logger, closeLog, nil
	}
}

func levelName(s string) string {
	if s == "" {
		return "warn"
	}
	return s
}
