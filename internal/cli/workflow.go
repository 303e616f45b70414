package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewWorkflowCmd создаёт группу команд для управления workflow.
func NewWorkflowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Manage workflows",
	}

	cmd.AddCommand(
		newWorkflowListCmd(clientFn, outputFn),
		newWorkflowUploadCmd(clientFn, outputFn),
		newWorkflowShowCmd(clientFn, outputFn),
		newWorkflowDeleteCmd(clientFn, outputFn),
		newWorkflowResetCmd(clientFn, outputFn),
		newWorkflowFieldsCmd(clientFn, outputFn),
		newWorkflowBindCmd(clientFn, outputFn),
		newWorkflowSetCmd(clientFn, outputFn),
		newWorkflowOrderCmd(clientFn, outputFn),
		newWorkflowRenderCmd(clientFn, outputFn),
	)

	return cmd
}

func newWorkflowListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workflows, err := client.ListWorkflows()
			if err != nil {
				return err
			}

			headers := []string{"NAME", "CREATED", "UPDATED"}
			rows := make([][]string, len(workflows))
			for i, wf := range workflows {
				rows[i] = []string{wf.Name, wf.CreatedAt, wf.UpdatedAt}
			}

			out.Print(headers, rows, workflows)
			return nil
		},
	}
}

func newWorkflowUploadCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "upload NAME",
		Short: "Upload a workflow document from file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read document file: %w", err)
			}

			// Валидируем что это валидный JSON
			if !json.Valid(data) {
				return fmt.Errorf("document file is not valid JSON")
			}

			wf, err := client.CreateWorkflow(args[0], json.RawMessage(data))
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow uploaded: %s", wf.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to workflow JSON file (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newWorkflowShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var document bool

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show workflow details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			wf, err := client.GetWorkflow(args[0])
			if err != nil {
				return err
			}

			if document {
				out.JSON(json.RawMessage(wf.Document))
				return nil
			}

			out.Print(
				[]string{"NAME", "CREATED", "UPDATED"},
				[][]string{{wf.Name, wf.CreatedAt, wf.UpdatedAt}},
				wf,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&document, "document", false, "Print the raw workflow document")

	return cmd
}

func newWorkflowDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteWorkflow(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow deleted: %s", args[0]))
			return nil
		},
	}
}

func newWorkflowResetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "reset NAME",
		Short: "Reset a workflow document to its original and drop settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.ResetWorkflow(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow reset: %s", args[0]))
			return nil
		},
	}
}

func newWorkflowFieldsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "fields NAME",
		Short: "List editable fields of a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			fields, err := client.GetFields(args[0])
			if err != nil {
				return err
			}

			out.Print(fieldHeaders, fieldRows(fields), fields)
			return nil
		},
	}
}

func newWorkflowBindCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bind NAME INDEX PLACEHOLDER",
		Short: "Bind a field to a placeholder (empty placeholder unbinds)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			placeholder := ""
			if len(args) == 3 {
				placeholder = args[2]
			}

			fields, err := editField(client, args[0], args[1], func(f *FieldResponse) {
				f.Placeholder = placeholder
			})
			if err != nil {
				return err
			}

			out.Success("Field updated")
			out.Print(fieldHeaders, fieldRows(fields), fields)
			return nil
		},
	}

	return cmd
}

func newWorkflowSetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME INDEX VALUE",
		Short: "Set a field value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			fields, err := editField(client, args[0], args[1], func(f *FieldResponse) {
				f.StoredValue = args[2]
				if f.Placeholder == "" {
					f.TextValue = args[2]
				}
			})
			if err != nil {
				return err
			}

			out.Success("Field updated")
			out.Print(fieldHeaders, fieldRows(fields), fields)
			return nil
		},
	}
}

func newWorkflowOrderCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "order NAME INDEX ORDER",
		Short: "Set the display order of a field's node",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			order, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid order: %s", args[2])
			}

			fields, err := editField(client, args[0], args[1], func(f *FieldResponse) {
				f.Order = order
			})
			if err != nil {
				return err
			}

			out.Success("Field updated")
			out.Print(fieldHeaders, fieldRows(fields), fields)
			return nil
		},
	}
}

func newWorkflowRenderCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var overrides []string

	cmd := &cobra.Command{
		Use:   "render NAME",
		Short: "Render the workflow document with placeholder substitution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			parsed, err := parseOverrides(overrides)
			if err != nil {
				return err
			}

			rendered, err := client.Render(args[0], parsed)
			if err != nil {
				return err
			}

			out.JSON(rendered)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&overrides, "set", nil, "Placeholder override as name=value (repeatable)")

	return cmd
}

// --- Field helpers ---

var fieldHeaders = []string{"#", "ORDER", "NODE", "INPUT", "TYPE", "PLACEHOLDER", "VALUE"}

func fieldRows(fields []FieldResponse) [][]string {
	rows := make([][]string, len(fields))
	for i, f := range fields {
		node := f.NodeTitle
		if !f.IsPrimary {
			node = ""
		}
		rows[i] = []string{
			strconv.Itoa(i),
			strconv.Itoa(f.Order),
			node,
			f.InputName,
			f.Type,
			f.Placeholder,
			f.TextValue,
		}
	}
	return rows
}

// editField загружает поля workflow, применяет правку к полю с данным
// индексом и сохраняет конфигурацию целиком.
func editField(client *Client, workflow, rawIndex string, edit func(*FieldResponse)) ([]FieldResponse, error) {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return nil, fmt.Errorf("invalid field index: %s", rawIndex)
	}

	fields, err := client.GetFields(workflow)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(fields) {
		return nil, fmt.Errorf("field index %d out of range (0..%d)", index, len(fields)-1)
	}

	edit(&fields[index])

	return client.SaveFields(workflow, fields)
}

// parseOverrides разбирает пары name=value в JSON-значения.
// Числа передаются как числа, остальное — как строки.
func parseOverrides(pairs []string) (map[string]json.RawMessage, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	result := make(map[string]json.RawMessage, len(pairs))
	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid override %q, expected name=value", pair)
		}

		if json.Valid([]byte(value)) && value != "" && (value[0] == '-' || (value[0] >= '0' && value[0] <= '9')) {
			result[name] = json.RawMessage(value)
			continue
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode override %q: %w", name, err)
		}
		result[name] = encoded
	}

	return result, nil
}
