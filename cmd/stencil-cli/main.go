// Stencil CLI — инструмент командной строки для управления
// workflow, плейсхолдерами, стилями и заданиями через HTTP API.
//
// Использование:
//
//	stencil [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	workflow     Управление workflow и их полями
//	placeholder  Управление каталогом плейсхолдеров
//	style        Управление стилями prompt
//	job          Управление заданиями генерации
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/stencil/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "stencil",
		Short:         "Stencil CLI — workflow parameterization tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewWorkflowCmd(clientFn, outputFn),
		cli.NewPlaceholderCmd(clientFn, outputFn),
		cli.NewStyleCmd(clientFn, outputFn),
		cli.NewJobCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
