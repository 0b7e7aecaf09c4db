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
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gofv/InputParameters"
	"github.com/notargets/gofv/builder"
	"github.com/notargets/gofv/environment"
	"github.com/notargets/gofv/utils"
)

var exampleFile = `
########################################
Title: tube
Mesh:
  Faces: [200]
  Lower: [0]
  Upper: [1]
EOS:
  Gas: {Type: perfectGas, Gamma: 1.4, Rgas: 287.0}
  Liquid: {Type: stiffenedGas, Gamma: 4.4, PInf: 6.e8, Cv: 1000}
InitialConditions:
  Temperature: "300"
  Pressure: "x < 0.5 ? 1e5 : 1e4"
  Velocity: "0"
  VolumeFraction: "1"
Boundaries:
  - {Name: ends, Type: reflective, Labels: [1, 2]}
TimeStepper:
  Scheme: rk3ssp
  MaxTime: 6.e-4
  InitialDt: 1.e-6
  Adapt: {Type: physicsConstrained, CFL: 0.8}
########################################
`

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a case described by a YAML input file",
	Long: `
Builds the mesh, fields, equation of state and solver of a case and steps it to completion,

gofv run -I case.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		inputFile, _ := cmd.Flags().GetString("inputConditionsFile")
		if len(inputFile) == 0 {
			fmt.Printf("error: must supply an input parameters file (-I, --inputConditionsFile)\n")
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		prof, _ := cmd.Flags().GetString("profile")
		switch prof {
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
		case "":
		default:
			logrus.Fatalf("unknown profile %q, use cpu or mem", prof)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if _, err = RunCase(ctx, inputFile, viper.GetInt("procLimit")); err != nil {
			logrus.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the mesh, EOS, initial and boundary conditions")
	RunCmd.Flags().String("profile", "", "write a cpu or mem profile to the working directory")
}

// RunCase reads, builds and solves the case in path inside a fresh run environment
func RunCase(ctx context.Context, path string, procLimit int) (c *builder.Case, err error) {
	var (
		sim *InputParameters.Simulation
		env *environment.RunEnvironment
	)
	if sim, err = InputParameters.ReadFile(path); err != nil {
		return
	}
	sim.Print()
	if env, err = environment.Initialize(environment.Parameters{
		Title:           sim.Title,
		TagDirectory:    sim.Environment.TagDirectory,
		OutputDirectory: sim.Environment.OutputDirectory,
	}); err != nil {
		return
	}
	defer func() {
		if ferr := environment.Finalize(); err == nil {
			err = ferr
		}
	}()
	if c, err = builder.Build(sim, builder.Options{OutputDirectory: env.Directory, ParallelDegree: procLimit}); err != nil {
		return
	}
	start := time.Now()
	if err = c.Stepper.Solve(ctx); err != nil {
		return
	}
	alloc, sys, numGC := utils.MemUsage()
	logrus.WithFields(logrus.Fields{
		"steps":    c.Stepper.Step(),
		"time":     c.Stepper.Time(),
		"elapsed":  time.Since(start),
		"allocMiB": alloc,
		"sysMiB":   sys,
		"numGC":    numGC,
	}).Infof("case %q complete", sim.Title)
	return
}
