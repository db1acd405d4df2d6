package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewUserCmd создаёт группу команд для управления пользователями.
func NewUserCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage applicants",
	}

	cmd.AddCommand(
		newUserRegisterCmd(clientFn, outputFn),
		newUserShowCmd(clientFn, outputFn),
		newUserListCmd(clientFn, outputFn),
	)

	return cmd
}

func newUserRegisterCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new applicant",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			user, err := client.RegisterUser(email)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("User registered: %s", user.ID))
			out.Print(
				[]string{"ID", "EMAIL", "CREATED"},
				[][]string{{user.ID, user.Email, user.CreatedAt}},
				user,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Applicant email (required)")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newUserShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show applicant details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			user, err := client.GetUser(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "EMAIL", "CREATED"},
				[][]string{{user.ID, user.Email, user.CreatedAt}},
				user,
			)
			return nil
		},
	}
}

func newUserListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applicants",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			users, err := client.ListUsers(limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "EMAIL", "CREATED"}
			rows := make([][]string, len(users))
			for i, u := range users {
				rows[i] = []string{u.ID, u.Email, u.CreatedAt}
			}

			out.Print(headers, rows, users)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of users")

	return cmd
}
