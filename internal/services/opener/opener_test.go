package opener

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_MODE_OPENER") == "1" {
		fmt.Fprint(os.Stdout, os.Getenv("MOCK_STDOUT"))
		os.Exit(0)
	}

	os.Exit(m.Run())
}

type recordedCommand struct {
	name string
	args []string
}

func mockExecCommand(t *testing.T) *[]recordedCommand {
	var mu sync.Mutex
	var recorded []recordedCommand

	originalExecCommand := execCommand
	t.Cleanup(func() {
		execCommand = originalExecCommand
	})

	execCommand = func(command string, args ...string) *exec.Cmd {
		mu.Lock()
		recorded = append(recorded, recordedCommand{name: command, args: args})
		mu.Unlock()

		cmd := exec.Command(os.Args[0], "-test.run=TestMain")
		cmd.Env = []string{"GO_TEST_MODE_OPENER=1"}
		return cmd
	}
	return &recorded
}

func TestSystemOpener_Open(t *testing.T) {
	testCases := []struct {
		name         string
		goos         string
		url          string
		expectErr    bool
		expectedName string
		expectedArgs []string
	}{
		{
			name:         "Linux uses xdg-open",
			goos:         "linux",
			url:          "https://open.example/track/1",
			expectedName: "xdg-open",
			expectedArgs: []string{"https://open.example/track/1"},
		},
		{
			name:         "macOS uses open",
			goos:         "darwin",
			url:          "https://open.example/track/1",
			expectedName: "open",
			expectedArgs: []string{"https://open.example/track/1"},
		},
		{
			name:         "Windows uses the protocol handler",
			goos:         "windows",
			url:          "http://open.example/track/1",
			expectedName: "rundll32",
			expectedArgs: []string{"url.dll,FileProtocolHandler", "http://open.example/track/1"},
		},
		{name: "Empty URL", goos: "linux", url: "  ", expectErr: true},
		{name: "Non-http scheme", goos: "linux", url: "file:///etc/passwd", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorded := mockExecCommand(t)
			o := &SystemOpener{goos: tc.goos}

			err := o.Open(tc.url)

			if tc.expectErr {
				require.Error(t, err)
				assert.Empty(t, *recorded, "No process should be started")
				return
			}
			require.NoError(t, err)
			require.Len(t, *recorded, 1)
			assert.Equal(t, tc.expectedName, (*recorded)[0].name)
			assert.Equal(t, tc.expectedArgs, (*recorded)[0].args)
		})
	}
}
