package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/session"
)

// PasswordEnv is read when --password is not given.
const PasswordEnv = "BACKOFFICE_PASSWORD"

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for later commands",
		Long: `Log in with email and password. The password is taken from --password,
then $BACKOFFICE_PASSWORD, then the first line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				password = os.Getenv(PasswordEnv)
			}
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			res, err := a.sess.Login(cmd.Context(), email, password)
			if err != nil {
				return errors.New(a.sess.Error())
			}

			p := a.printer(cmd)
			if err := p.validate(); err != nil {
				return err
			}
			out := struct {
				session.Result
				User any `json:"user"`
			}{res, a.sess.User()}
			if ok, err := p.structured(out); ok {
				return err
			}
			p.line("%s", approvedStyle.Render(res.Message))
			if u := a.sess.User(); u != nil {
				p.line("logged in as %s (%s), landing page %s", u.Email, u.Role, res.Redirect)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sess.Logout(cmd.Context())
			a.printer(cmd).line("logged out")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.printer(cmd)
			if err := p.validate(); err != nil {
				return err
			}
			out := struct {
				State           session.State `json:"state"`
				IsAuthenticated bool          `json:"is_authenticated"`
				IsAdmin         bool          `json:"is_admin"`
				User            any           `json:"user"`
			}{a.sess.State(), a.sess.IsAuthenticated(), a.sess.IsAdmin(), a.sess.User()}
			if ok, err := p.structured(out); ok {
				return err
			}
			u := a.sess.User()
			if u == nil {
				p.line("%s", dimStyle.Render("not logged in"))
				return nil
			}
			p.line("%s <%s> role=%s", u.Name, u.Email, u.Role)
			return nil
		},
	}
}

// requireAdmin fails early when the stored session cannot reach admin endpoints.
func (a *app) requireAdmin() error {
	if !a.sess.IsAuthenticated() {
		return fmt.Errorf("not logged in; run `backoffice login` first")
	}
	if !a.sess.IsAdmin() {
		return fmt.Errorf("access denied: admin privileges required")
	}
	return nil
}
