package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// NewJobCmd создаёт группу команд для управления заданиями генерации.
func NewJobCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage generation jobs",
	}

	cmd.AddCommand(
		newJobListCmd(clientFn, outputFn),
		newJobCreateCmd(clientFn, outputFn),
		newJobShowCmd(clientFn, outputFn),
		newJobImageCmd(clientFn, outputFn),
	)

	return cmd
}

var jobHeaders = []string{"ID", "WORKFLOW", "STATUS", "CREATED", "FINISHED"}

func jobRow(j JobResponse) []string {
	return []string{j.ID, j.Workflow, j.Status, j.CreatedAt, j.FinishedAt}
}

func newJobListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			jobs, err := client.ListJobs(limit)
			if err != nil {
				return err
			}

			rows := make([][]string, len(jobs))
			for i, j := range jobs {
				rows[i] = jobRow(j)
			}

			out.Print(jobHeaders, rows, jobs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newJobCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var workflow, prompt, style string
	var width, height int
	var seed int64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Queue a generation job",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateJobRequest{
				Workflow: workflow,
				Prompt:   prompt,
				Width:    width,
				Height:   height,
				Style:    style,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			job, err := client.CreateJob(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Job queued: %s", job.ID))
			out.Print(jobHeaders, [][]string{jobRow(*job)}, job)
			return nil
		},
	}

	cmd.Flags().StringVar(&workflow, "workflow", "", "Workflow name (required)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt text (required)")
	cmd.Flags().IntVar(&width, "width", 0, "Image width (default from workflow settings)")
	cmd.Flags().IntVar(&height, "height", 0, "Image height (default from workflow settings)")
	cmd.Flags().StringVar(&style, "style", "", `Style name ("none" disables the default style)`)
	cmd.Flags().Int64Var(&seed, "seed", 0, "Fixed seed (random when omitted)")
	cmd.MarkFlagRequired("workflow")
	cmd.MarkFlagRequired("prompt")

	return cmd
}

func newJobShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show job details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			job, err := client.GetJob(args[0])
			if err != nil {
				return err
			}

			headers := []string{"ID", "WORKFLOW", "STATUS", "PROMPT", "SIZE", "ERROR"}
			size := ""
			if job.Width > 0 || job.Height > 0 {
				size = strconv.Itoa(job.Width) + "x" + strconv.Itoa(job.Height)
			}
			rows := [][]string{{job.ID, job.Workflow, job.Status, job.Prompt, size, job.Error}}

			out.Print(headers, rows, job)
			return nil
		},
	}
}

func newJobImageCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "image ID",
		Short: "Download the generated image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			data, err := client.DownloadJobImage(args[0])
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = args[0] + ".png"
			}

			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}

			out.Success(fmt.Sprintf("Image saved: %s", path))
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Output file path (default: <ID>.png)")

	return cmd
}
