package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/session"
)

func newLoginCommand() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session token",
		Long: `Sign in against the backend and store the issued token so that the next
"serve" or "whoami" resumes the session.

The password is read from stdin when --password is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = line
			}

			rt, err := loadRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			user, err := rt.store.Login(cmd.Context(), username, password)
			switch {
			case errors.Is(err, session.ErrLoginUnavailable):
				return errors.New("unable to reach the server, please try again")
			case err != nil:
				return errors.New("invalid username or password")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := resolve(cmd.Context(), rt); err != nil {
				return err
			}
			rt.store.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Validate the persisted session and print its user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := resolve(cmd.Context(), rt); err != nil {
				return err
			}
			snap := rt.store.Snapshot()
			if snap.Status != domain.StatusAuthenticated {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", snap.User.Name, snap.User.Role)
			return nil
		},
	}
}

// resolve runs the startup validation and waits for it.
func resolve(ctx context.Context, rt *runtime) error {
	rt.store.Init(ctx)
	return rt.store.WaitReady(ctx)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
