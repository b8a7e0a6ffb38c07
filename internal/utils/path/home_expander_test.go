package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/pombump/internal/utils/path"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	homeProvider := func() (string, error) { return "/home/release", nil }

	testCases := []struct {
		name         string
		provider     pathutils.HomeDirectoryProvider
		input        string
		expectedPath string
	}{
		{name: "bare_tilde", provider: homeProvider, input: "~", expectedPath: "/home/release"},
		{name: "tilde_prefix", provider: homeProvider, input: "~/clones/acme", expectedPath: filepath.Join("/home/release", "clones", "acme")},
		{name: "absolute_path", provider: homeProvider, input: "/srv/clones", expectedPath: "/srv/clones"},
		{name: "relative_path", provider: homeProvider, input: "clones", expectedPath: "clones"},
		{name: "other_user", provider: homeProvider, input: "~builder/clones", expectedPath: "~builder/clones"},
		{name: "empty", provider: homeProvider, input: "", expectedPath: ""},
		{
			name:         "unresolvable_home",
			provider:     func() (string, error) { return "", errors.New("no home") },
			input:        "~/clones",
			expectedPath: "~/clones",
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(testCase.provider)
			require.Equal(subtest, testCase.expectedPath, expander.Expand(testCase.input))
		})
	}
}
