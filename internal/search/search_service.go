package search

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"go.uber.org/zap"

	"minigrep/internal/config"
	"minigrep/internal/pattern"
)

var ErrEncoding = errors.New("stream did not contain valid UTF-8")

type Searcher struct {
	set    *pattern.Set
	invert bool
	logger *zap.Logger
}

func NewSearcher(cfg *config.Config, set *pattern.Set, logger *zap.Logger) *Searcher {
	return &Searcher{
		set:    set,
		invert: cfg.Invert,
		logger: logger,
	}
}

// SearchFile читает файл целиком и возвращает подходящие строки в исходном виде
func (s *Searcher) SearchFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pattern.ErrReadFile, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrEncoding, path)
	}

	lines := pattern.SplitLines(string(data))
	result := s.matchLines(lines)
	s.logger.Debug("file scanned",
		zap.String("path", path),
		zap.Int("lines", len(lines)),
		zap.Int("matched", len(result)),
	)
	return result, nil
}

// MatchLines — то же, что SearchFile, но для уже прочитанного текста
func (s *Searcher) MatchLines(text string) []string {
	return s.matchLines(pattern.SplitLines(text))
}

func (s *Searcher) matchLines(lines []string) []string {
	opts := s.set.Options()
	result := make([]string, 0)
	for _, line := range lines {
		// сравниваем приведённую строку, а в результат кладём исходную
		match := s.set.Match(opts.FoldLine(line))
		// -v: берём строку, если match != invert
		if match != s.invert {
			result = append(result, line)
		}
	}
	return result
}
