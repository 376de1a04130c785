package cli

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			var buf bytes.Buffer
			root.SetOut(&buf)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(buf.String(), appName) {
				t.Errorf("completion %s script does not mention %s", shell, appName)
			}
		})
	}
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestCompleteScenario(t *testing.T) {
	exts, directive := completeScenario(nil, nil, "")
	if directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("directive = %v, want FilterFileExt", directive)
	}
	for _, want := range []string{"toml", "yaml", "json"} {
		if !slices.Contains(exts, want) {
			t.Errorf("completeScenario() = %v, missing %s", exts, want)
		}
	}

	if got, directive := completeScenario(nil, []string{"a.toml"}, ""); got != nil || directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("second argument = %v, %v, want no completion", got, directive)
	}
}
