package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/elmo3159/Pokeseal-sub000/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the resolved settings shared by every subcommand.
type app struct {
	v *viper.Viper
}

func (a *app) client() (*client.HTTPClient, error) {
	server := a.v.GetString("server")
	user := strings.TrimSpace(a.v.GetString("user"))
	if user == "" {
		return nil, errors.New("no user set: pass --user or TRADECTL_USER")
	}
	return client.NewHTTPClient(server, user, nil), nil
}

func (a *app) print(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "tradectl",
		Short:         "Negotiate sticker trades from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if cfgFile := a.v.GetString("config"); cfgFile != "" {
				a.v.SetConfigFile(cfgFile)
				if err := a.v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config: %w", err)
				}
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file")
	flags.String("server", "http://localhost:8080", "trade server base URL")
	flags.String("user", "", "acting user id")
	for _, name := range []string{"config", "server", "user"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}
	a.v.SetEnvPrefix("TRADECTL")
	a.v.AutomaticEnv()

	root.AddCommand(
		newMatchCmd(a),
		newCancelMatchCmd(a),
		newInviteCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newUnreadCmd(a),
		newRequestCmd(a),
		newMessageCmd(a),
		newConfirmCmd(a),
		newCancelCmd(a),
		newItemsCmd(a),
		newWatchCmd(a),
	)
	return root
}
