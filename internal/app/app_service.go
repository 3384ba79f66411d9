package app

import (
	"bufio"
	"io"

	"go.uber.org/zap"

	"minigrep/internal/config"
)

// FileSearcher — то, что умеет вернуть подходящие строки одного файла
type FileSearcher interface {
	SearchFile(path string) ([]string, error)
}

type Runner struct {
	cfg      *config.Config
	searcher FileSearcher
	out      io.Writer
	logger   *zap.Logger
}

func NewRunner(cfg *config.Config, searcher FileSearcher, out io.Writer, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		searcher: searcher,
		out:      out,
		logger:   logger,
	}
}

// Run обходит файлы по порядку и печатает найденные строки.
// Первая же ошибка останавливает работу, уже напечатанное остаётся.
func (r *Runner) Run() error {
	w := bufio.NewWriter(r.out)

	for _, file := range r.cfg.Files {
		// префикс с именем файла нужен только если файлов больше одного
		prefix := ""
		if r.cfg.Multi() {
			prefix = file + ":"
		}

		lines, err := r.searcher.SearchFile(file)
		if err != nil {
			r.logger.Debug("search failed", zap.String("path", file), zap.Error(err))
			return err
		}

		for _, line := range lines {
			if _, err := w.WriteString(prefix + line + "\n"); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
