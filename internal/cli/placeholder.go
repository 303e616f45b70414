package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPlaceholderCmd создаёт группу команд для управления каталогом плейсхолдеров.
func NewPlaceholderCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "placeholder",
		Short: "Manage the placeholder catalog",
	}

	cmd.AddCommand(
		newPlaceholderListCmd(clientFn, outputFn),
		newPlaceholderAddCmd(clientFn, outputFn),
		newPlaceholderRemoveCmd(clientFn, outputFn),
	)

	return cmd
}

func newPlaceholderListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog names",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			names, err := client.ListPlaceholders()
			if err != nil {
				return err
			}

			rows := make([][]string, len(names))
			for i, name := range names {
				rows[i] = []string{name}
			}

			out.Print([]string{"NAME"}, rows, names)
			return nil
		},
	}
}

func newPlaceholderAddCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Add a name to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if _, err := client.AddPlaceholder(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Placeholder added: %s", args[0]))
			return nil
		},
	}
}

func newPlaceholderRemoveCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a name from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.RemovePlaceholder(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Placeholder removed: %s", args[0]))
			return nil
		},
	}
}
