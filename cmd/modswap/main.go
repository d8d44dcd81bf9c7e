package main

import (
	"os"

	"github.com/spf13/afero"

	"github.com/example/modswap/internal/cli"
	"github.com/example/modswap/internal/modswap"
)

var exitFunc = os.Exit

func main() {
	exitFunc(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := cli.NewRootCommand(afero.NewOsFs(), cli.NewPromptUI(), os.Stdout, os.Stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		cli.NewRenderer(os.Stderr).Render(modswap.Error("%v", err))
		return 1
	}
	return 0
}
