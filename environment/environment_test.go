package environment

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofv/types"
)

func TestRunEnvironment(t *testing.T) {
	_, err := Get()
	assert.True(t, errors.Is(err, ErrNotInitialized))
	assert.True(t, errors.Is(Finalize(), ErrNotInitialized))

	dir := t.TempDir()
	now = func() time.Time { return time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC) }
	defer func() { now = time.Now }()

	env, err := Initialize(Parameters{Title: "bubble", TagDirectory: true, OutputDirectory: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bubble_20210304T050607"), env.Directory)
	info, err := os.Stat(env.Directory)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(env.Directory, "a.nc"), env.OutputFile("a.nc"))

	got, err := Get()
	require.NoError(t, err)
	assert.Equal(t, env, got)
	_, err = Initialize(Parameters{Title: "again", OutputDirectory: dir})
	assert.True(t, errors.Is(err, types.ErrConfiguration))
	require.NoError(t, Finalize())

	env, err = Initialize(Parameters{Title: "plain", OutputDirectory: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plain"), env.Directory)
	require.NoError(t, Finalize())

	_, err = Initialize(Parameters{})
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}
