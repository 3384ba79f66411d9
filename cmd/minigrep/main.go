package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"minigrep/internal/config"
	"minigrep/internal/di"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run возвращает код выхода: 0 — успех (в том числе без совпадений), 1 — любая ошибка
func run(args []string, stdout, stderr io.Writer) int {
	program, err := di.Build(args, stdout, stderr) // разобрать аргументы и собрать зависимости
	switch {
	case errors.Is(err, config.ErrHelp):
		fmt.Fprint(stdout, config.Usage)
		return 0
	case errors.Is(err, config.ErrVersion):
		fmt.Fprintln(stdout, "minigrep", config.Version)
		return 0
	case err != nil:
		return fail(stderr, err)
	}

	if err := program.Run(context.Background()); err != nil {
		return fail(stderr, err)
	}
	return 0
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "Application error: %v\n", err)
	return 1
}
