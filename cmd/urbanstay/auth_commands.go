package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harshhujare/urban-frontend/domain"
	"github.com/harshhujare/urban-frontend/internal/app"
	httpx "github.com/harshhujare/urban-frontend/internal/http"
)

func newLoginCmd(container *app.Container) *cobra.Command {
	var (
		email     string
		password  string
		usePhone  bool
		useGoogle bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email/password, phone code, or Google",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch {
			case usePhone:
				return phoneLogin(cmd, container)
			case useGoogle:
				return googleLogin(cmd, container)
			default:
				user, err := container.Session.Authenticate(ctx, domain.PasswordCredential{
					Email:    email,
					Password: password,
				})
				if err != nil {
					return err
				}
				cmd.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&usePhone, "phone", false, "sign in with a one-time phone code")
	cmd.Flags().BoolVar(&useGoogle, "google", false, "sign in with Google")
	return cmd
}

// phoneLogin drives the two-phase challenge interactively: enter the number,
// receive a code, verify it (with a name for unregistered numbers).
func phoneLogin(cmd *cobra.Command, container *app.Container) error {
	ctx := cmd.Context()
	flow := container.NewPhoneFlow()
	reader := bufio.NewReader(os.Stdin)

	flow.InputPhone(prompt(cmd, reader, "Phone number (10 digits): "))
	if !flow.SendEnabled() {
		return domain.ErrPhoneLength
	}
	if err := flow.Send(ctx); err != nil {
		return err
	}
	cmd.Println("Code sent.")

	for {
		input := prompt(cmd, reader, "Code (4 digits, or 'r' to resend): ")
		if strings.EqualFold(input, "r") {
			if remaining := flow.ResendRemaining(); remaining > 0 {
				cmd.Printf("Resend available in %ds\n", int(remaining/time.Second))
				continue
			}
			if err := flow.Resend(ctx); err != nil {
				cmd.Println(err.Error())
				continue
			}
			cmd.Println("Code re-sent.")
			continue
		}

		flow.InputCode(input)
		if flow.IsNewUser() {
			flow.InputName(prompt(cmd, reader, "Your name: "))
		}
		if !flow.VerifyEnabled() {
			cmd.Println("Enter exactly 4 digits (and a name for new accounts).")
			continue
		}

		user, err := flow.Verify(ctx)
		if err != nil {
			cmd.Println(err.Error())
			continue
		}
		cmd.Printf("Signed in as %s (phone %s)\n", user.Name, user.Phone)
		return nil
	}
}

// googleLogin opens a localhost callback, waits for the provider redirect,
// and exchanges the captured token for a session.
func googleLogin(cmd *cobra.Command, container *app.Container) error {
	listener := httpx.NewCredentialListener(container.Config.OAuthCallbackAddr, container.Log)
	redirectURL, err := listener.Start()
	if err != nil {
		return err
	}
	cmd.Printf("Finish signing in with Google in your browser, redirect URL:\n  %s\n", redirectURL)

	credential, err := listener.Wait(cmd.Context())
	if err != nil {
		return err
	}

	user, err := container.Session.Authenticate(cmd.Context(), domain.FederatedCredential{Token: credential})
	if err != nil {
		return err
	}
	cmd.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func newRegisterCmd(container *app.Container) *cobra.Command {
	var name, email, password, confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an UrbanStay account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if confirm == "" {
				confirm = password
			}
			user, err := container.Session.Authenticate(cmd.Context(), domain.RegisterCredential{
				Name:            name,
				Email:           email,
				Password:        password,
				PasswordConfirm: confirm,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Welcome, %s! You are signed in.\n", user.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (min 6 characters)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "repeat the password (defaults to --password)")
	return cmd
}

func newLogoutCmd(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the cached profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Session.Hydrate(cmd.Context())
			if err := container.Session.Logout(cmd.Context()); err != nil {
				// Local state is already cleared; the server session may linger.
				cmd.Printf("Signed out locally (backend said: %v)\n", err)
				return nil
			}
			cmd.Println("Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(container *app.Container) *cobra.Command {
	var verified bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session := container.Session.Hydrate(cmd.Context())
			if verified {
				// Wait out the background revalidation for an authoritative answer.
				<-container.Session.Revalidated()
				session = container.Session.Snapshot()
			}

			if !session.IsAuthenticated() {
				cmd.Println("Not signed in.")
				return nil
			}
			user := session.User
			cmd.Printf("%s <%s>\n", user.Name, user.Email)
			cmd.Printf("  role:  %s\n", user.Role)
			if user.Phone != "" {
				cmd.Printf("  phone: %s\n", user.Phone)
			}
			cmd.Printf("  state: %s\n", session.State)
			return nil
		},
	}

	cmd.Flags().BoolVar(&verified, "verified", false, "wait for backend confirmation instead of trusting the cache")
	return cmd
}

func newProfileCmd(container *app.Container) *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	var update domain.ProfileUpdate
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Session.Hydrate(cmd.Context())
			user, err := container.Session.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			cmd.Printf("Profile updated: %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&update.Name, "name", "", "display name")
	updateCmd.Flags().StringVar(&update.Email, "email", "", "account email")
	updateCmd.Flags().StringVar(&update.Phone, "phone", "", "phone number (10 digits)")
	updateCmd.Flags().StringVar(&update.ProfilePhoto, "photo", "", "profile photo URL")

	profile.AddCommand(updateCmd)
	return profile
}

func prompt(cmd *cobra.Command, reader *bufio.Reader, label string) string {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
