// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"context"
	"fmt"

	"github.com/z5labs/envcompose"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newResolveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the environment name and the location of its config",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = runE(v, func(ctx context.Context, cmd *cobra.Command, s session) error {
		c := envcompose.New(nil, newFileResolver(v), composerOptions(v, s)...)

		env, location, err := c.ResolveEnv(ctx, descriptor(v.GetString("env"), nil))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", env, location)
		return err
	})

	cmd.Flags().String("env", "", "environment to resolve, overrides the environment variable")
	return cmd
}

func newListCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the environments which have a config file",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = runE(v, func(ctx context.Context, cmd *cobra.Command, s session) error {
		envs, err := newFileResolver(v).Envs()
		if err != nil {
			return err
		}
		for _, env := range envs {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), env)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return cmd
}
