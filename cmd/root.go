// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"os"

	"github.com/googlecloudplatform/graphwalk/cfg"
	"github.com/googlecloudplatform/graphwalk/common"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the graphwalk command. run receives the rationalized and
// validated configuration and the input argument.
func NewRootCmd(run func(c *cfg.Config, input string) error) (*cobra.Command, error) {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "graphwalk [flags] input",
		Short: "Sum the node infos reachable from a start node of a graph",
		Long: `graphwalk reads an undirected graph and prints the sum of the infos of
every node reachable from the start node. The traversal runs on a fixed pool of
workers that enqueue one task per discovered node.

input is a local file, "-" for standard input, or a gs://bucket/object URI.`,
		Version: common.GetVersion(),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			return run(c, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file. Flags set on the command line take precedence.")
	if err := cfg.BindFlags(v, rootCmd.PersistentFlags()); err != nil {
		return nil, fmt.Errorf("error while binding flags: %w", err)
	}
	return rootCmd, nil
}

func loadConfig(v *viper.Viper, cfgFile string) (*cfg.Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error while reading the config file: %w", err)
		}
	}

	var c cfg.Config
	err := v.Unmarshal(&c, viper.DecodeHook(cfg.DecodeHook()), func(decoderConfig *mapstructure.DecoderConfig) {
		decoderConfig.TagName = "yaml"
	})
	if err != nil {
		return nil, fmt.Errorf("error while unmarshaling the config: %w", err)
	}
	if err = cfg.Rationalize(&c); err != nil {
		return nil, fmt.Errorf("error while rationalizing the config: %w", err)
	}
	if err = cfg.ValidateConfig(&c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

// Execute runs the graphwalk command and exits with status 1 on failure.
func Execute() {
	rootCmd, err := NewRootCmd(func(c *cfg.Config, input string) error {
		return runWalk(c, input, os.Stdout)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err = rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
