package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewFlowCmd создаёт группу команд для просмотра процесса.
func NewFlowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Inspect the admission flow",
	}

	cmd.AddCommand(newFlowShowCmd(clientFn, outputFn))

	return cmd
}

func newFlowShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the flow with visible tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var steps []StepResponse
			var err error
			if userID != "" {
				steps, err = client.GetUserFlow(userID)
			} else {
				steps, err = client.GetFlow()
			}
			if err != nil {
				return err
			}

			headers := []string{"ID", "STEP", "STATUS", "TASKS"}
			rows := make([][]string, len(steps))
			for i, s := range steps {
				names := make([]string, len(s.Tasks))
				for j, t := range s.Tasks {
					names[j] = t.Name
				}
				rows[i] = []string{strconv.Itoa(s.ID), s.Name, s.Status, strings.Join(names, ", ")}
			}

			out.Print(headers, rows, steps)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Show the flow as seen by this user")

	return cmd
}
