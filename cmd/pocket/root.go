package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/vburojevic/pocket-importer/internal/callback"
	"github.com/vburojevic/pocket-importer/internal/config"
	"github.com/vburojevic/pocket-importer/internal/pocket"
	"github.com/vburojevic/pocket-importer/internal/version"
)

// app holds the global flags and the settings resolved from them.
type app struct {
	envFile          string
	credentialsPath  string
	consumerKey      string
	apiBase          string
	port             int
	timeout          time.Duration
	callbackTimeout  time.Duration
	callbackAttempts int
	debug            bool
	debugJSON        bool
	quiet            bool

	settings *config.Settings
	logger   *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pocket",
		Short: "Pocket API client and export importer",
		Long: `pocket talks to the Pocket (getpocket.com) v3 API.

It authorizes through the browser on first use and caches the access token,
can add and list items, and can replay an HTML export (one list of unread
items, optionally followed by a list of archived items) into an account.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.resolve(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", ".env", "Environment file to load before reading POCKET_* variables")
	pf.StringVar(&a.credentialsPath, "credentials", "", "Path to the cached credential file (default: <tmp>/__pocket_key.json)")
	pf.StringVar(&a.consumerKey, "consumer-key", "", "Pocket consumer key")
	pf.StringVar(&a.apiBase, "api-base", "", "API base URL (default https://getpocket.com)")
	pf.IntVarP(&a.port, "port", "p", config.DefaultCallbackPort(), "Local port for the OAuth redirect")
	pf.DurationVar(&a.timeout, "timeout", 15*time.Second, "HTTP timeout")
	pf.DurationVar(&a.callbackTimeout, "callback-timeout", 0, "Give up waiting for the OAuth redirect after this long (0 = wait)")
	pf.IntVar(&a.callbackAttempts, "callback-attempts", 1, "Redirect requests to accept before giving up")
	pf.BoolVar(&a.debug, "debug", false, "Log HTTP requests (never prints tokens)")
	pf.BoolVar(&a.debugJSON, "debug-json", false, "Log HTTP requests as JSON lines")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Less output")

	root.AddCommand(
		newImportCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newAuthCmd(a),
		newVersionCmd(),
	)
	return root
}

// resolve merges flags over environment and defaults. Flags win only when
// given explicitly.
func (a *app) resolve(cmd *cobra.Command) error {
	s, err := config.LoadSettings(a.envFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("credentials") {
		s.CredentialsPath = a.credentialsPath
	}
	if flags.Changed("consumer-key") {
		s.ConsumerKey = a.consumerKey
	}
	if flags.Changed("api-base") {
		s.APIBase = a.apiBase
	}
	if flags.Changed("port") {
		s.CallbackPort = a.port
	}
	if flags.Changed("timeout") {
		s.Timeout = a.timeout
	}
	a.settings = s

	var w io.Writer = cmd.ErrOrStderr()
	if a.quiet {
		w = io.Discard
	}
	a.logger = log.New(w, "", 0)
	return nil
}

func (a *app) newClient(consumerKey, accessToken string) (*pocket.Client, error) {
	c, err := pocket.NewClient(a.settings.APIBase, consumerKey, accessToken, a.settings.Timeout)
	if err != nil {
		return nil, err
	}
	c.UserAgent = version.UserAgent()
	switch {
	case a.debugJSON:
		c.EnableDebugJSON(a.logger)
	case a.debug:
		c.EnableDebug(a.logger)
	}
	return c, nil
}

// ensureClient returns a client carrying an access token, running the
// browser authorization when the credential cache misses.
func (a *app) ensureClient(ctx context.Context) (*pocket.Client, error) {
	if creds, ok := config.LoadCredentials(a.settings.CredentialsPath); ok {
		return a.newClient(creds.ConsumerKey, creds.AccessToken)
	}
	return a.authorize(ctx)
}

func (a *app) authorize(ctx context.Context) (*pocket.Client, error) {
	c, err := a.newClient(a.settings.ConsumerKey, "")
	if err != nil {
		return nil, err
	}
	a.logger.Printf("Authorizing with Pocket; waiting for the redirect on port %d ...", a.settings.CallbackPort)
	err = c.Authorize(ctx, a.settings.CallbackPort, callback.Options{
		MaxAttempts: a.callbackAttempts,
		Timeout:     a.callbackTimeout,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}
	creds := &config.Credentials{
		AccessToken: c.AccessToken,
		ConsumerKey: c.ConsumerKey,
		Username:    c.Username,
	}
	if err := creds.Save(a.settings.CredentialsPath); err != nil {
		return nil, fmt.Errorf("save credentials %s: %w", a.settings.CredentialsPath, err)
	}
	a.logger.Printf("Authorized as %s", c.Username)
	return c, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
}
