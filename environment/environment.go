// Package environment holds the process wide run settings: case title and output directory.
package environment

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"

	"github.com/notargets/gofv/types"
)

var ErrNotInitialized = errors.New("run environment not initialized")

type Parameters struct {
	Title           string
	TagDirectory    bool   // append a timestamp to the output directory
	OutputDirectory string // parent of the run directory, "~" is expanded
}

type RunEnvironment struct {
	Parameters
	Directory string
	Started   time.Time
}

var (
	mu      sync.Mutex
	current *RunEnvironment
	now     = time.Now
)

// Initialize creates the output directory of the run. It must be called once before Get.
func Initialize(p Parameters) (env *RunEnvironment, err error) {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return nil, types.NewConfigurationError("run environment %q already initialized", current.Title)
	}
	if p.Title == "" {
		return nil, types.NewConfigurationError("run environment needs a title")
	}
	if p.OutputDirectory == "" {
		p.OutputDirectory = "."
	}
	var parent string
	if parent, err = homedir.Expand(p.OutputDirectory); err != nil {
		return
	}
	env = &RunEnvironment{Parameters: p, Started: now()}
	name := p.Title
	if p.TagDirectory {
		name += "_" + env.Started.Format("20060102T150405")
	}
	env.Directory = filepath.Join(parent, name)
	if err = os.MkdirAll(env.Directory, 0755); err != nil {
		return nil, err
	}
	current = env
	logrus.WithField("directory", env.Directory).Infof("run %q initialized", p.Title)
	return
}

func Get() (env *RunEnvironment, err error) {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return nil, ErrNotInitialized
	}
	return current, nil
}

// Finalize releases the environment so another run may initialize it
func Finalize() (err error) {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		return ErrNotInitialized
	}
	logrus.WithField("elapsed", now().Sub(current.Started)).Infof("run %q finalized", current.Title)
	current = nil
	return
}

// OutputFile places name in the run directory
func (re *RunEnvironment) OutputFile(name string) string {
	return filepath.Join(re.Directory, name)
}
