package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewStyleCmd создаёт группу команд для управления стилями prompt.
func NewStyleCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "style",
		Short: "Manage prompt styles",
	}

	cmd.AddCommand(
		newStyleListCmd(clientFn, outputFn),
		newStyleShowCmd(clientFn, outputFn),
		newStyleSetCmd(clientFn, outputFn),
		newStyleDeleteCmd(clientFn, outputFn),
		newStyleDefaultCmd(clientFn, outputFn),
	)

	return cmd
}

func styleRow(s StyleResponse) []string {
	return []string{s.Name, s.Pre, s.Post, strconv.FormatBool(s.IsDefault)}
}

var styleHeaders = []string{"NAME", "PRE", "POST", "DEFAULT"}

func newStyleListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			styles, err := client.ListStyles()
			if err != nil {
				return err
			}

			rows := make([][]string, len(styles))
			for i, s := range styles {
				rows[i] = styleRow(s)
			}

			out.Print(styleHeaders, rows, styles)
			return nil
		},
	}
}

func newStyleShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show style details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			style, err := client.GetStyle(args[0])
			if err != nil {
				return err
			}

			out.Print(styleHeaders, [][]string{styleRow(*style)}, style)
			return nil
		},
	}
}

func newStyleSetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var pre, post string
	var isDefault bool

	cmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Create or update a style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			style, err := client.UpsertStyle(args[0], UpsertStyleRequest{
				Pre:       pre,
				Post:      post,
				IsDefault: isDefault,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Style saved: %s", style.Name))
			out.Print(styleHeaders, [][]string{styleRow(*style)}, style)
			return nil
		},
	}

	cmd.Flags().StringVar(&pre, "pre", "", "Text prepended to the prompt")
	cmd.Flags().StringVar(&post, "post", "", "Text appended to the prompt")
	cmd.Flags().BoolVar(&isDefault, "default", false, "Make this the default style")

	return cmd
}

func newStyleDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteStyle(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Style deleted: %s", args[0]))
			return nil
		},
	}
}

func newStyleDefaultCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "default NAME",
		Short: "Make a style the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.SetDefaultStyle(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Default style: %s", args[0]))
			return nil
		},
	}
}
