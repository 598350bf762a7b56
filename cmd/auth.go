/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dentflow/clinicsync/api"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// options for the auth cmds.
var (
	authEmail     string
	authPassword  string
	authFirstName string
	authLastName  string
	authRole      string
	authGender    string
	authPhone     string
	authBio       string
)

// loginCmd represents the login command.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the clinic API",
	Long: `Log in to the clinic API.

Provide your --email, and either your --password or type it when prompted.

The token the server issues is stored (readable only by you) in the token
database, ~/.clinicsync.db by default, so you stay logged in until you 'logout'.
`,
	Run: func(_ *cobra.Command, _ []string) {
		withSession(func(ctx context.Context, a *app) error {
			password, err := passwordFromFlagOrStdin()
			if err != nil {
				return err
			}

			if err = a.sess.Login(ctx, api.Credentials{Email: authEmail, Password: password}); err != nil {
				return err
			}

			a.sess.Wait()
			printGreeting(a)

			return nil
		})
	},
}

// registerCmd represents the register command.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Long: `Create an account and log in.

--first, --last, --email, --password and --role are required; --gender is
optional. Names must be 3 to 15 characters and the password at least 6.
`,
	Run: func(_ *cobra.Command, _ []string) {
		withSession(func(ctx context.Context, a *app) error {
			password, err := passwordFromFlagOrStdin()
			if err != nil {
				return err
			}

			if err = a.sess.Register(ctx, api.Registration{
				FirstName: authFirstName,
				LastName:  authLastName,
				Email:     authEmail,
				Password:  password,
				Role:      authRole,
				Gender:    authGender,
			}); err != nil {
				return err
			}

			a.sess.Wait()
			printGreeting(a)

			return nil
		})
	},
}

// logoutCmd represents the logout command.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget your stored token",
	Run: func(_ *cobra.Command, _ []string) {
		withSession(func(_ context.Context, a *app) error {
			if err := a.sess.Logout(); err != nil {
				return err
			}

			info("logged out")

			return nil
		})
	},
}

// whoamiCmd represents the whoami command.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who you are logged in as",
	Long: `Show who you are logged in as.

Displays your profile as the server has it, plus what your token claims about
you and when it expires. The token's claims are decoded for display only; the
server decides whether the token is still good.
`,
	Run: func(_ *cobra.Command, _ []string) {
		withSession(func(_ context.Context, a *app) error {
			if !a.sess.LoggedIn() {
				return errNotLoggedIn
			}

			a.sess.Wait()
			printProfile(a)

			return nil
		})
	},
}

// profileCmd represents the profile command.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your profile",
	Long: `Update your profile.

Any of --first, --last, --email, --phone and --bio that you supply replace the
current value; the rest are sent back as they are. Your profile is refetched
afterwards and displayed.
`,
	Run: func(_ *cobra.Command, _ []string) {
		withSession(func(ctx context.Context, a *app) error {
			if !a.sess.LoggedIn() {
				return errNotLoggedIn
			}

			changes := api.ProfileChanges{
				FirstName: authFirstName,
				LastName:  authLastName,
				Email:     authEmail,
				Phone:     authPhone,
				Bio:       authBio,
			}

			if changes.IsZero() {
				return Error("nothing to update")
			}

			if err := a.sess.UpdateProfile(ctx, changes); err != nil {
				return err
			}

			a.sess.Wait()
			printProfile(a)

			return nil
		})
	},
}

// passwordCmd represents the password command.
var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Long: `Change your password.

You are asked for your current password, then your new one twice. Nothing you
type is shown. When not run from a terminal, the three are read as lines from
stdin.

You stay logged in afterwards.
`,
	Run: func(_ *cobra.Command, _ []string) {
		withSession(func(ctx context.Context, a *app) error {
			if !a.sess.LoggedIn() {
				return errNotLoggedIn
			}

			var pc api.PasswordChange

			for _, field := range []struct {
				prompt string
				dst    *string
			}{
				{"Current password: ", &pc.Password},
				{"New password: ", &pc.NewPassword},
				{"Confirm new password: ", &pc.ConfirmPassword},
			} {
				pw, err := readPassword(field.prompt)
				if err != nil {
					return err
				}

				*field.dst = pw
			}

			return a.sess.ChangePassword(ctx, pc)
		})
	},
}

// withSession creates an app with just a session, calls cb with it, and closes
// it, dying on any error.
func withSession(cb func(ctx context.Context, a *app) error) {
	a, err := newSessionApp()
	if err != nil {
		die("%s", err)
	}

	err = cb(context.Background(), a)

	if errc := a.close(); errc != nil {
		warn("%s", errc)
	}

	if err != nil {
		die("%s", err)
	}
}

func passwordFromFlagOrStdin() (string, error) {
	if authPassword != "" {
		return authPassword, nil
	}

	return readPassword("Password: ")
}

// stdinLines is shared so that successive reads from piped input each get the
// next line.
var stdinLines = bufio.NewReader(os.Stdin) //nolint:gochecknoglobals

// readPassword prompts for a password on stderr and reads it from the
// terminal without echoing it. When stdin is not a terminal, it reads the next
// line instead.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd()) //nolint:gosec
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)

		fmt.Fprintln(os.Stderr)

		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}

		return string(pw), nil
	}

	line, err := stdinLines.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func printGreeting(a *app) {
	if u := a.sess.User(); u != nil {
		cliPrint("logged in as %s <%s>\n", u.Name(), u.Email)
	}
}

func printProfile(a *app) {
	table := newTable("Field", "Value")

	if u := a.sess.User(); u != nil {
		table.Append([]string{"Name", u.Name()})
		table.Append([]string{"Email", u.Email})
		table.Append([]string{"Permission", u.Permission})
		table.Append([]string{"Phone", u.Phone})
		table.Append([]string{"Bio", u.Bio})
	} else {
		warn("could not fetch your profile")
	}

	if claims, err := a.sess.Claims(); err == nil {
		table.Append([]string{"Token role", claims.Role})

		if !claims.ExpiresAt.IsZero() {
			expiry := relativeTime(claims.ExpiresAt)
			if claims.Expired(time.Now()) {
				expiry = "expired " + expiry
			}

			table.Append([]string{"Token expires", expiry})
		}
	}

	table.Render()
}

func init() {
	RootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, profileCmd, passwordCmd)

	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&authEmail, "email", "e", "", "your email address")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "your password (prompted for if not given)")
	}

	registerCmd.Flags().StringVar(&authFirstName, "first", "", "your first name")
	registerCmd.Flags().StringVar(&authLastName, "last", "", "your last name")
	registerCmd.Flags().StringVar(&authRole, "role", "", "your role, eg. Dentist")
	registerCmd.Flags().StringVar(&authGender, "gender", "", "your gender")

	profileCmd.Flags().StringVar(&authFirstName, "first", "", "new first name")
	profileCmd.Flags().StringVar(&authLastName, "last", "", "new last name")
	profileCmd.Flags().StringVarP(&authEmail, "email", "e", "", "new email address")
	profileCmd.Flags().StringVar(&authPhone, "phone", "", "new phone number")
	profileCmd.Flags().StringVar(&authBio, "bio", "", "new bio")
}
