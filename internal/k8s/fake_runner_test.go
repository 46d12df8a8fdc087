package k8s

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/scanner-research/scanner-gke/internal/infraerr"
)

// fakeKubectl answers `get <kind> -o json` from canned listings and records
// every other invocation.
type fakeKubectl struct {
	mu sync.Mutex
	fs afero.Fs

	// listings holds successive responses per kind; the last one repeats.
	listings map[Kind][]string
	listErr  error
	runErr   map[string]error

	calls     []string
	manifests []string
	served    map[Kind]int
}

func newFakeKubectl(fs afero.Fs) *fakeKubectl {
	return &fakeKubectl{
		fs:       fs,
		listings: map[Kind][]string{},
		runErr:   map[string]error{},
		served:   map[Kind]int{},
	}
}

func (f *fakeKubectl) setList(kind Kind, responses ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings[kind] = responses
}

func (f *fakeKubectl) Output(_ context.Context, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, strings.Join(args, " "))
	if len(args) != 4 || args[0] != "get" {
		return nil, fmt.Errorf("unexpected output call %v", args)
	}
	if f.listErr != nil {
		return nil, f.listErr
	}

	kind := Kind(args[1])
	responses := f.listings[kind]
	if len(responses) == 0 {
		return []byte(listJSON()), nil
	}
	i := f.served[kind]
	f.served[kind]++
	if i >= len(responses) {
		i = len(responses) - 1
	}
	return []byte(responses[i]), nil
}

func (f *fakeKubectl) Run(_ context.Context, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := strings.Join(args, " ")
	f.calls = append(f.calls, call)

	if len(args) == 3 && args[0] == "create" && args[1] == "-f" {
		data, err := afero.ReadFile(f.fs, args[2])
		if err != nil {
			return &infraerr.ProcessExecutionError{Command: args, ExitCode: 1, Err: err}
		}
		f.manifests = append(f.manifests, string(data))
		if err := f.runErr["create"]; err != nil {
			return err
		}
	}
	return f.runErr[call]
}

func (f *fakeKubectl) callList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// listJSON wraps item documents into a kubectl List.
func listJSON(items ...string) string {
	return `{"apiVersion":"v1","kind":"List","items":[` + strings.Join(items, ",") + `]}`
}

func namedJSON(apiVersion, kind, name string) string {
	return fmt.Sprintf(`{"apiVersion":%q,"kind":%q,"metadata":{"name":%q}}`, apiVersion, kind, name)
}
