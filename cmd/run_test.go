package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofv/environment"
)

func writeCase(t *testing.T, outDir string) string {
	fileInput := fmt.Sprintf(`
Title: Test Case
Environment:
  OutputDirectory: %q
Mesh:
  Faces: [10]
  Lower: [0]
  Upper: [1]
EOS:
  Gas: {Type: perfectGas, Gamma: 1.4, Rgas: 287.0}
  Liquid: {Type: stiffenedGas, Gamma: 4.4, PInf: 6.e8, Cv: 1000}
InitialConditions:
  Temperature: "300"
  Pressure: "x < 0.5 ? 1e5 : 1e4"
  Velocity: "0"
  VolumeFraction: "x < 0.5"
Boundaries:
  - {Name: ends, Type: reflective, Labels: [1, 2]}
TimeStepper:
  Scheme: rk3ssp
  MaxSteps: 2
  InitialDt: 1.e-7
  Adapt: {Type: physicsConstrained, CFL: 0.5}
Serializer:
  Interval: {Type: fixed, Value: 1}
`, outDir)
	path := filepath.Join(t.TempDir(), "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fileInput), 0644))
	return path
}

func TestRunCase(t *testing.T) {
	outDir := t.TempDir()
	c, err := RunCase(context.Background(), writeCase(t, outDir), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Stepper.Step())
	for step := 0; step <= 2; step++ {
		assert.FileExists(t, filepath.Join(outDir, "Test Case", fmt.Sprintf("Test Case.%05d.nc", step)))
	}
	// The environment is released for the next run
	_, err = environment.Get()
	assert.ErrorIs(t, err, environment.ErrNotInitialized)

	_, err = RunCase(context.Background(), filepath.Join(outDir, "missing.yaml"), 0)
	assert.Error(t, err)
}

func TestRunCaseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunCase(ctx, writeCase(t, t.TempDir()), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetLogLevel(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())
	require.NoError(t, setLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.Error(t, setLogLevel("loud"))
}
