// Package cli is the terminal front end of socialite.
package cli

import (
	"bufio"
	"github.com/spf13/cobra"
	"io"
	"socialite/client"
)

// App holds what every command needs: the API client, the stored session and the terminal
type App struct {
	baseURL     string
	sessionPath string
	session     *Session
	api         *client.Client
	in          *bufio.Reader
	out         io.Writer
}

func NewApp(in io.Reader, out io.Writer) *App {
	return &App{
		baseURL:     client.DefaultBaseURL,
		sessionPath: DefaultSessionPath(),
		in:          bufio.NewReader(in),
		out:         out,
	}
}

// connect loads the session and builds the client. A --api flag wins over the stored base URL.
func (a *App) connect(cmd *cobra.Command) error {
	s, err := loadSession(a.sessionPath)
	if err != nil {
		return err
	}
	a.session = s
	baseURL := a.baseURL
	if !cmd.Flags().Changed("api") && s.BaseURL != "" {
		baseURL = s.BaseURL
	}
	a.api = client.New(baseURL)
	a.api.SetToken(s.Token)
	a.session.BaseURL = baseURL
	return nil
}

func (a *App) requireLogin() error {
	if a.session == nil || a.session.Token == "" {
		return errNoSession
	}
	return nil
}
