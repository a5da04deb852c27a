package cmd

import (
	"io"
	"os"
	"testing"
)

// resetFlags restores the package-level flag variables listed below to their
// registered defaults, except noColor, which it forces on so captured output
// carries no color codes, before a test runs a command through
// rootCmd.Execute() — Cobra
// only overwrites a flag when it is present in the next argv, so a stale
// value from a prior subtest would otherwise leak into this one.
func resetFlags() {
	evalExpr = ""
	modeFlag = "interpret"
	noColor = true
	showPos = false
	showType = false
	onlyErrors = false
	parseExpression = false
	replMode = "interpret"
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it, the way the teacher's CLI integration tests
// capture a spawned binary's stdout, adapted here to an in-process Cobra
// invocation (cmd/tsx/cmd/run.go and friends still print straight to
// os.Stdout rather than cmd.OutOrStdout()).
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string, 1)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	fn()

	w.Close()
	out := <-done
	return out
}

func runCLI(t *testing.T, args []string) string {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	return captureStdout(t, func() {
		_ = rootCmd.Execute()
	})
}

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
