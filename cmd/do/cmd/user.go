package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/authgate/internal/app"
	"github.com/templui/authgate/internal/model"
	"github.com/templui/authgate/internal/service"
)

func UserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	userCmd.AddCommand(userCreateCmd(), userRoleCmd(), userShowCmd())
	return userCmd
}

func userCreateCmd() *cobra.Command {
	var params service.CreateUserParams

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a password account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				user, err := a.UserService.Create(cmd.Context(), params)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) role=%s verified=%t\n", user.Email, user.ID, user.Role, user.IsVerified())
				return nil
			})
		},
	}

	createCmd.Flags().StringVar(&params.Email, "email", "", "account email")
	createCmd.Flags().StringVar(&params.Password, "password", "", "account password")
	createCmd.Flags().StringVar(&params.Role, "role", model.RoleUser, "user or admin")
	createCmd.Flags().BoolVar(&params.Verified, "verified", false, "mark the email as already verified")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")

	return createCmd
}

func userRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <email> <role>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				user, err := a.UserService.SetRole(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
				return nil
			})
		},
	}
}

func userShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <email>",
		Short: "Show a user and any pending verification token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				ctx := cmd.Context()
				user, err := a.UserService.ByEmail(ctx, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "id:        %s\n", user.ID)
				fmt.Fprintf(out, "email:     %s\n", user.Email)
				fmt.Fprintf(out, "role:      %s\n", user.Role)
				fmt.Fprintf(out, "password:  %t\n", user.HasPassword())
				fmt.Fprintf(out, "oauth:     %t\n", user.OAuthLinked)
				if user.IsVerified() {
					fmt.Fprintf(out, "verified:  %s\n", user.EmailVerifiedAt.Format(time.RFC3339))
				} else {
					fmt.Fprintln(out, "verified:  no")
				}

				token, err := a.UserService.PendingVerification(ctx, user.Email)
				if err != nil {
					return err
				}
				if token != nil {
					fmt.Fprintf(out, "pending:   %s (expires %s)\n", a.EmailService.VerificationURL(token.Token), token.ExpiresAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}
