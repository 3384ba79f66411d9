package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"src.elv.sh/pkg/getopt"
)

// Anchor — режим привязки шаблона: без привязки, к границам слова или ко всей строке
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorWord
	AnchorLine
)

func (a Anchor) String() string {
	switch a {
	case AnchorWord:
		return "word"
	case AnchorLine:
		return "line"
	default:
		return "none"
	}
}

// FoldMode определяет, как реализуется -i
type FoldMode int

const (
	FoldText   FoldMode = iota // шаблон и строка приводятся к нижнему регистру
	FoldNative                 // шаблон компилируется с флагом (?i), строка не меняется
)

func (f FoldMode) String() string {
	if f == FoldNative {
		return "native"
	}
	return "text"
}

const (
	EnvLocal = "local"
	EnvProd  = "prod"

	// SettingsEnv — переменная окружения с путём до yaml-файла настроек
	SettingsEnv = "MINIGREP_CONFIG"

	Version = "0.1.0"
)

var (
	ErrUsage    = errors.New("usage error")
	ErrConflict = errors.New("conflicting options")
	ErrSettings = errors.New("invalid settings")

	// ErrHelp и ErrVersion не ошибки выполнения: main печатает текст и выходит с 0
	ErrHelp    = errors.New("help requested")
	ErrVersion = errors.New("version requested")
)

const Usage = `Usage: minigrep [OPTIONS] PATTERN FILES...

Options:
  -e, --regexp PATTERN    additional pattern (repeatable)
  -f, --file PATFILE      read one pattern per line from PATFILE (repeatable)
  -i, --ignore-case       ignore case distinctions in patterns and input data
  -v, --invert-match      select non-matching lines
  -w, --word-regexp       match only whole words
  -x, --line-regexp       match only whole lines
  -h, --help              print this help
  -V, --version           print version
`

// Settings — необязательный yaml-файл, всё что не задаётся флагами
type Settings struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	CaseFold string `yaml:"case_fold"`
}

type Config struct {
	Pattern      string
	Patterns     []string
	PatternFiles []string
	Files        []string

	IgnoreCase bool
	Invert     bool
	Anchor     Anchor
	Fold       FoldMode

	Settings Settings
}

// Multi возвращает true, если перед строками нужно печатать имя файла
func (c *Config) Multi() bool {
	return len(c.Files) > 1
}

func DefaultSettings() Settings {
	return Settings{
		Env:      EnvLocal,
		LogLevel: "warn",
		CaseFold: FoldText.String(),
	}
}

func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSettings, err)
	}
	cfg := DefaultSettings()
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSettings, path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SettingsFromEnv читает файл из MINIGREP_CONFIG; если переменная пустая — настройки по умолчанию
func SettingsFromEnv() (*Settings, error) {
	path := os.Getenv(SettingsEnv)
	if path == "" {
		s := DefaultSettings()
		return &s, nil
	}
	return LoadSettings(path)
}

func (s Settings) Validate() error {
	switch s.Env {
	case EnvLocal, EnvProd:
	default:
		return fmt.Errorf("%w: unknown env %q", ErrSettings, s.Env)
	}
	if _, err := parseFold(s.CaseFold); err != nil {
		return err
	}
	return nil
}

func parseFold(s string) (FoldMode, error) {
	switch s {
	case "", "text":
		return FoldText, nil
	case "native":
		return FoldNative, nil
	}
	return FoldText, fmt.Errorf("%w: unknown case_fold %q", ErrSettings, s)
}

var optionSpecs = []*getopt.OptionSpec{
	{Short: 'e', Long: "regexp", Arity: getopt.RequiredArgument},
	{Short: 'f', Long: "file", Arity: getopt.RequiredArgument},
	{Short: 'i', Long: "ignore-case", Arity: getopt.NoArgument},
	{Short: 'v', Long: "invert-match", Arity: getopt.NoArgument},
	{Short: 'w', Long: "word-regexp", Arity: getopt.NoArgument},
	{Short: 'x', Long: "line-regexp", Arity: getopt.NoArgument},
	{Short: 'h', Long: "help", Arity: getopt.NoArgument},
	{Short: 'V', Long: "version", Arity: getopt.NoArgument},
}

func findShort(r rune) *getopt.OptionSpec {
	for _, spec := range optionSpecs {
		if spec.Short == r {
			return spec
		}
	}
	return nil
}

func findLong(name string) *getopt.OptionSpec {
	for _, spec := range optionSpecs {
		if spec.Long == name {
			return spec
		}
	}
	return nil
}

// filesStart возвращает индекс первого файла: второй позиционный аргумент.
// Всё начиная с него — файлы, даже если похоже на флаг. -1, если файлов нет.
func filesStart(args []string) int {
	positional := 0
	stop := false // после "--" флагов больше нет
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case stop || a == "-" || !strings.HasPrefix(a, "-"):
			positional++
			if positional == 2 {
				return i
			}
		case a == "--":
			stop = true
		case strings.HasPrefix(a, "--"):
			// --regexp PATTERN: значение в следующем аргументе
			if spec := findLong(a[2:]); spec != nil && spec.Arity == getopt.RequiredArgument {
				i++
			}
		default:
			// -iv, -efoo, -e foo
			for j, r := range a[1:] {
				spec := findShort(r)
				if spec == nil || spec.Arity != getopt.RequiredArgument {
					continue
				}
				if j+len(string(r)) == len(a)-1 {
					i++
				}
				break
			}
		}
	}
	return -1
}

// Parse разбирает аргументы командной строки (без имени программы).
// Флаги допустимы до первого файла, дальше все аргументы — файлы.
// Возвращённый Config дальше только читается.
func Parse(args []string, settings Settings) (*Config, error) {
	var files []string
	if idx := filesStart(args); idx >= 0 {
		args, files = args[:idx], args[idx:]
	}

	opts, rest, err := getopt.Parse(args, optionSpecs, getopt.GNU)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg := &Config{Settings: settings}
	var word, line bool
	for _, opt := range opts {
		switch opt.Spec.Short {
		case 'e':
			cfg.Patterns = append(cfg.Patterns, opt.Argument)
		case 'f':
			cfg.PatternFiles = append(cfg.PatternFiles, opt.Argument)
		case 'i':
			cfg.IgnoreCase = true
		case 'v':
			cfg.Invert = true
		case 'w':
			word = true
		case 'x':
			line = true
		case 'h':
			return nil, ErrHelp
		case 'V':
			return nil, ErrVersion
		}
	}

	// -w и -x взаимоисключающие, молча выбирать один из них не будем
	if word && line {
		return nil, fmt.Errorf("%w: -w/--word-regexp cannot be used with -x/--line-regexp", ErrConflict)
	}
	switch {
	case word:
		cfg.Anchor = AnchorWord
	case line:
		cfg.Anchor = AnchorLine
	}

	if cfg.Fold, err = parseFold(settings.CaseFold); err != nil {
		return nil, err
	}

	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: missing PATTERN", ErrUsage)
	}
	cfg.Pattern = rest[0]
	cfg.Files = append(rest[1:], files...)
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("%w: missing FILES", ErrUsage)
	}
	return cfg, nil
}
