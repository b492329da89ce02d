package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/credkeeper/internal/client/config"
)

// NewRootCmd creates the root command of credkeeper-cli reading from in and
// writing to out.
func NewRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var (
		configFile string
		serverURL  string
		timeout    time.Duration
		app        *App
	)

	cmd := &cobra.Command{
		Use:           "credkeeper-cli",
		Short:         "credkeeper - sign up and log in against a credkeeper server",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") {
				cfg.ServerURL = serverURL
			}
			if cmd.Flags().Changed("timeout") {
				cfg.RequestTimeout = timeout
			}
			app = NewApp(cfg, in, out)
			return nil
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "JSON config file path")
	cmd.PersistentFlags().StringVarP(&serverURL, "server", "a", "", "server base URL, e.g. http://127.0.0.1:3000")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout, e.g. 5s")

	appRef := func() *App { return app }
	cmd.AddCommand(newSignupCmd(appRef))
	cmd.AddCommand(newLoginCmd(appRef))
	cmd.AddCommand(newPingCmd(appRef))

	return cmd
}

func newSignupCmd(app func() *App) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app().Signup(cmd.Context(), name, email)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (prompted when empty)")
	cmd.Flags().StringVar(&email, "email", "", "email address (prompted when empty)")
	return cmd
}

func newLoginCmd(app func() *App) *cobra.Command {
	var (
		email     string
		tokenOnly bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app().Login(cmd.Context(), email, tokenOnly)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address (prompted when empty)")
	cmd.Flags().BoolVar(&tokenOnly, "token-only", false, "print only the access token")
	return cmd
}

func newPingCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app().Ping(cmd.Context())
		},
	}
}
