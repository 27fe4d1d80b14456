// Copyright (c) 2020-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattermost/mattermost-faas-probes/function"
	"github.com/mattermost/mattermost-faas-probes/hostfacts"
	"github.com/mattermost/mattermost-faas-probes/probes"
	"github.com/mattermost/mattermost-faas-probes/utils"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <function> [param]",
	Short: "Run a function locally, and print its result",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		param := ""
		if len(args) > 1 {
			param = args[1]
		}
		text, err := runLocal(cmd.Context(), hostfacts.NewSystemFromEnv(), args[0], param)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		if len(text) == 0 || text[len(text)-1] != '\n' {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

func runLocal(ctx context.Context, facts hostfacts.Provider, name, param string) (string, error) {
	f, ok := probes.Find(probes.Functions(facts), name)
	if !ok {
		return "", utils.NewNotFoundError("function %q", name)
	}
	req := function.Request{
		Path:   f.Path,
		Values: params(f.Name, param),
	}
	log.With(req).Debugw("Running function", "function", f.Name)
	return f.Handler(ctx, req)
}

func params(name, param string) map[string]interface{} {
	if param == "" {
		return nil
	}
	return map[string]interface{}{probes.ParamName(name): param}
}
