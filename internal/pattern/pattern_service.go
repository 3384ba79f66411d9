package pattern

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"minigrep/internal/config"
)

var (
	ErrBadPattern = errors.New("invalid pattern")
	ErrReadFile   = errors.New("cannot read file")
)

// Options — всё, что влияет на компиляцию одного шаблона
type Options struct {
	IgnoreCase bool
	Fold       config.FoldMode
	Anchor     config.Anchor
}

func OptionsFrom(cfg *config.Config) Options {
	return Options{
		IgnoreCase: cfg.IgnoreCase,
		Fold:       cfg.Fold,
		Anchor:     cfg.Anchor,
	}
}

// AnchorFromFlags сводит два независимых флага к одному режиму; -w важнее -x
func AnchorFromFlags(word, line bool) config.Anchor {
	switch {
	case word:
		return config.AnchorWord
	case line:
		return config.AnchorLine
	}
	return config.AnchorNone
}

// Fold приводит текст к нижнему регистру (с учётом Unicode, например конечной сигмы)
func Fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// FoldLine возвращает строку в том виде, в котором она сравнивается с шаблонами
func (o Options) FoldLine(line string) string {
	if o.IgnoreCase && o.Fold == config.FoldText {
		return Fold(line)
	}
	return line
}

// Matcher — один скомпилированный шаблон
type Matcher struct {
	source string
	re     *regexp.Regexp
}

func (m *Matcher) Source() string {
	return m.source
}

// Expr — выражение, которое реально ушло в regexp
func (m *Matcher) Expr() string {
	return m.re.String()
}

func (m *Matcher) MatchString(s string) bool {
	return m.re.MatchString(s)
}

// Expression строит текст регулярного выражения: сначала регистр, потом привязка
func Expression(p string, opts Options) string {
	if opts.IgnoreCase && opts.Fold == config.FoldText {
		p = Fold(p)
	}

	switch opts.Anchor {
	case config.AnchorWord:
		p = `\b(?:` + p + `)\b`
	case config.AnchorLine:
		p = `^(?:` + p + `)$`
	}

	if opts.IgnoreCase && opts.Fold == config.FoldNative {
		p = "(?i)" + p
	}
	return p
}

func Compile(p string, opts Options) (*Matcher, error) {
	re, err := regexp.Compile(Expression(p, opts))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadPattern, p, err)
	}
	return &Matcher{source: p, re: re}, nil
}

// Set — упорядоченный набор шаблонов, строка подходит, если подходит хотя бы один
type Set struct {
	opts     Options
	matchers []*Matcher
}

func (s *Set) Len() int {
	return len(s.matchers)
}

func (s *Set) Matchers() []*Matcher {
	return s.matchers
}

func (s *Set) Options() Options {
	return s.opts
}

// Match проверяет уже подготовленную (FoldLine) строку; останавливается на первом совпадении
func (s *Set) Match(line string) bool {
	for _, m := range s.matchers {
		if m.MatchString(line) {
			return true
		}
	}
	return false
}

// CompileAll компилирует шаблоны по порядку; первый же неверный шаблон прерывает всё
func CompileAll(patterns []string, opts Options) (*Set, error) {
	set := &Set{opts: opts, matchers: make([]*Matcher, 0, len(patterns))}
	for _, p := range patterns {
		m, err := Compile(p, opts)
		if err != nil {
			return nil, err
		}
		set.matchers = append(set.matchers, m)
	}
	return set, nil
}

// Sources собирает шаблоны в порядке: основной, -e, строки файлов -f
func Sources(cfg *config.Config) ([]string, error) {
	patterns := make([]string, 0, 1+len(cfg.Patterns))
	patterns = append(patterns, cfg.Pattern)
	patterns = append(patterns, cfg.Patterns...)

	for _, path := range cfg.PatternFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadFile, err)
		}
		// каждая строка файла — отдельный шаблон, пустые тоже
		patterns = append(patterns, SplitLines(string(data))...)
	}
	return patterns, nil
}

// NewSet собирает и компилирует все шаблоны из конфигурации
func NewSet(cfg *config.Config, logger *zap.Logger) (*Set, error) {
	patterns, err := Sources(cfg)
	if err != nil {
		return nil, err
	}
	set, err := CompileAll(patterns, OptionsFrom(cfg))
	if err != nil {
		return nil, err
	}
	for _, m := range set.matchers {
		logger.Debug("pattern compiled",
			zap.String("pattern", m.Source()),
			zap.String("expr", m.Expr()),
			zap.Stringer("anchor", cfg.Anchor),
			zap.Stringer("fold", cfg.Fold),
		)
	}
	return set, nil
}
