// Where: internal/engine/fake_runner_test.go
// What: Shared fake CommandRunner for engine tests.
package engine

import (
	"context"
	"strings"
)

type call struct {
	Dir  string
	Name string
	Args []string
}

type fakeRunner struct {
	calls  []call
	output []byte
	err    error
}

func (r *fakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	r.calls = append(r.calls, call{Dir: dir, Name: name, Args: args})
	return r.err
}

func (r *fakeRunner) RunOutput(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, call{Dir: dir, Name: name, Args: args})
	return r.output, r.err
}

func (c call) line() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}
