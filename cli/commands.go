package cli

import (
	"fmt"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"os"
	"path/filepath"
	"socialite/service"
)

// NewRootCommand builds the socialctl command tree
func (a *App) NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "socialctl",
		Short:         "Terminal client of the socialite API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.out)
	root.PersistentFlags().StringVar(&a.baseURL, "api", a.baseURL, "base URL of the socialite API")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", a.sessionPath, "file the login session is kept in")

	root.AddCommand(
		a.loginCommand(),
		a.registerCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.homeCommand(),
		a.profileCommand(),
		a.recentCommand(),
		a.postCommand(),
		a.commentCommand(),
		a.friendsCommand(),
		a.searchCommand(),
		a.uploadCommand(),
	)
	return root
}

// private wraps a RunE that needs a logged in session
func (a *App) private(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}
		return run(cmd, args)
	}
}

func (a *App) remember(s *service.Session) error {
	a.session.Token = s.Token
	a.session.UserID = s.User.ID.Hex()
	a.session.Name = s.User.FirstName + " " + s.User.LastName
	return saveSession(a.sessionPath, a.session)
}

func (a *App) loginCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and remember the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			email := ""
			if len(args) == 1 {
				email = args[0]
			} else if email, err = prompt(a.in, a.out, "Email"); err != nil {
				return err
			}
			if password == "" {
				if password, err = promptPassword(a.out); err != nil {
					return err
				}
			}
			s, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err = a.remember(s); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Welcome back, %s\n", s.User.FirstName)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password, prompted for when empty")
	return cmd
}

func (a *App) registerCommand() *cobra.Command {
	var in service.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			fields := []struct {
				label string
				value *string
			}{
				{"First name", &in.FirstName},
				{"Last name", &in.LastName},
				{"Email", &in.Email},
			}
			for _, f := range fields {
				if *f.value == "" {
					if *f.value, err = prompt(a.in, a.out, f.label); err != nil {
						return err
					}
				}
			}
			if in.Password == "" {
				if in.Password, err = promptPassword(a.out); err != nil {
					return err
				}
			}
			s, err := a.api.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			if err = a.remember(s); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Welcome, %s\n", s.User.FirstName)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, prompted for when empty")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := removeSession(a.sessionPath); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			me, err := a.api.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s <%s> %s\n", me.FirstName, me.LastName, me.Email, me.ID.Hex())
			return nil
		}),
	}
}

func (a *App) homeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the news feed",
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			posts, err := a.api.Feed(cmd.Context())
			if err != nil {
				return err
			}
			printPosts(a.out, posts)
			return nil
		}),
	}
}

func (a *App) profileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [userId]",
		Short: "Show a profile and its posts, your own by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			userID := a.session.UserID
			if len(args) == 1 {
				userID = args[0]
			}
			profile, err := a.api.Profile(cmd.Context(), userID)
			if err != nil {
				return err
			}
			posts, err := a.api.UserPosts(cmd.Context(), userID)
			if err != nil {
				return err
			}
			printProfile(a.out, profile)
			fmt.Fprintln(a.out)
			printPosts(a.out, posts)
			return nil
		}),
	}
}

func (a *App) recentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently joined users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.api.RecentUsers(cmd.Context())
			if err != nil {
				return err
			}
			printUsers(a.out, users)
			return nil
		},
	}
}

func (a *App) searchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find users by name or email",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			users, err := a.api.SearchUsers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSearch(a.out, users)
			return nil
		}),
	}
}

func (a *App) uploadCommand() *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "upload <file | publicId>",
		Short: "Upload an image, or delete one with --delete",
		Args:  cobra.ExactArgs(1),
		RunE: a.private(func(cmd *cobra.Command, args []string) error {
			if remove {
				if err := a.api.DeleteImage(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Image deleted")
				return nil
			}
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "opening image failed")
			}
			defer f.Close()
			img, err := a.api.UploadImage(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "url: %s\npublicId: %s\n", img.URL, img.PublicID)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&remove, "delete", false, "delete the image with the given public id")
	return cmd
}
