/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gofv",
	Short: "Two phase compressible finite volume solver",
	Long: `
Solves the two phase Euler equations on box meshes with a cell centered finite volume method.
Cases are described in YAML, see the run command.

Flags may also be set in $HOME/.gofv.yaml or through GOFV_ prefixed environment variables.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setLogLevel(viper.GetString("logLevel"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gofv.yaml)")
	rootCmd.PersistentFlags().String("logLevel", "info", "log level: trace, debug, info, warn or error")
	rootCmd.PersistentFlags().Int("procLimit", 0, "maximum number of partitions, 0 uses every CPU")
	_ = viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("logLevel"))
	_ = viper.BindPFlag("procLimit", rootCmd.PersistentFlags().Lookup("procLimit"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".gofv")
	}
	viper.SetEnvPrefix("GOFV")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func setLogLevel(level string) (err error) {
	var lvl logrus.Level
	if lvl, err = logrus.ParseLevel(level); err != nil {
		return
	}
	logrus.SetLevel(lvl)
	return
}
