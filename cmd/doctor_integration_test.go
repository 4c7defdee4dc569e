package cmd

import (
	"strings"
	"testing"
)

func TestDoctorCommandExitCodeAndSingleSummary(t *testing.T) {
	setupTestEnvironment(t)
	plainColors(t)
	SetRunner(&fakeGpgRunner{listing: testPublicListing})

	var exitCode int
	doctorExitFunc = func(code int) { exitCode = code }

	root := GetRootCmd()
	root.SetArgs([]string{"doctor"})

	output, err := captureOutput(root.Execute)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}

	// The canned runner answers the export check with nothing, so the
	// run carries at least one error check.
	if exitCode != 2 {
		t.Errorf("exit code = %d, want 2", exitCode)
	}
	if got := strings.Count(output, "passed,"); got != 1 {
		t.Errorf("summary printed %d times in %q", got, output)
	}
	if !strings.Contains(output, "gpg binary") {
		t.Errorf("missing binary check line in %q", output)
	}
}
