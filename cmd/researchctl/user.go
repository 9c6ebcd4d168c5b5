package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yigit/researchdesk/internal/app/models"
	"github.com/yigit/researchdesk/internal/app/models/dto"
	"github.com/yigit/researchdesk/internal/bootstrap"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var (
	userName     string
	userEmail    string
	userPassword string
	userAdmin    bool
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long: `Create a user account. Accounts are plain users unless --admin is given.

The password must be at least 8 characters.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		role := models.RoleUser
		if userAdmin {
			role = models.RoleAdmin
		}
		return withDeps(cmd.Context(), func(ctx context.Context, _ *env, deps *bootstrap.Dependencies) error {
			created, err := deps.UserService.Create(ctx, userName, userEmail, userPassword, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %d (%s)\n", created.Role, created.ID, created.Email)
			return nil
		})
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDeps(cmd.Context(), func(ctx context.Context, _ *env, deps *bootstrap.Dependencies) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tLAST LOGIN")

			for page := 1; ; page++ {
				f := dto.ParseUserFilter(url.Values{"sort": {"asc"}, "page": {strconv.Itoa(page)}})
				users, total, err := deps.Repos.UserRepository.List(ctx, f)
				if err != nil {
					return err
				}
				for _, u := range users {
					lastLogin := "never"
					if u.LastLoginAt != nil {
						lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, lastLogin)
				}
				if page >= f.Page.LastPage(total) {
					break
				}
			}
			return w.Flush()
		})
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "login email")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "login password")
	userCreateCmd.Flags().BoolVar(&userAdmin, "admin", false, "grant the admin role")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd, userListCmd)
}
