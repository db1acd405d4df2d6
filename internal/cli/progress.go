package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewProgressCmd создаёт группу команд для работы с прогрессом.
func NewProgressCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Inspect and advance applicant progress",
	}

	cmd.AddCommand(
		newProgressPositionCmd(clientFn, outputFn),
		newProgressStatusCmd(clientFn, outputFn),
		newProgressCompleteCmd(clientFn, outputFn),
	)

	return cmd
}

func newProgressPositionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "position USER_ID",
		Short: "Show the applicant's current position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			pos, err := client.GetPosition(args[0])
			if err != nil {
				return err
			}

			out.KeyValue([][2]string{
				{"Step", pos.StepName},
				{"Task", pos.TaskName},
				{"Finished", strconv.FormatBool(pos.Finished)},
			}, pos)
			return nil
		},
	}
}

func newProgressStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status USER_ID",
		Short: "Show the applicant's overall status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			status, err := client.GetStatus(args[0])
			if err != nil {
				return err
			}

			out.KeyValue([][2]string{
				{"Status", status.Status},
			}, status)
			return nil
		},
	}
}

func newProgressCompleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "complete USER_ID STEP",
		Short: "Submit a step completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			payload := map[string]any{}
			if data != "" {
				if err := json.Unmarshal([]byte(data), &payload); err != nil {
					return fmt.Errorf("invalid --data JSON: %w", err)
				}
			}

			result, err := client.CompleteStep(args[0], args[1], payload)
			if err != nil {
				return err
			}

			if result.Applied {
				out.Success(fmt.Sprintf("Submission applied: %s", result.StepName))
			} else {
				out.Success("Submission ignored: nothing to apply")
			}
			out.KeyValue([][2]string{
				{"Step", result.StepName},
				{"Task", result.TaskName},
				{"Applied", strconv.FormatBool(result.Applied)},
				{"Accepted", strconv.FormatBool(result.Accepted)},
				{"Overall", result.Overall},
			}, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Submission payload as JSON object")

	return cmd
}
