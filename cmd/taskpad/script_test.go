package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"
)

// TestScripts runs the end-to-end CLI scripts under testdata. Each script
// gets a fresh work directory, so databases created with --db are isolated.
func TestScripts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping CLI scripts in short mode")
	}

	bin := buildTaskpad(t)
	engine := &script.Engine{
		Conds: script.DefaultConds(),
		Cmds:  script.DefaultCmds(),
		Quiet: !testing.Verbose(),
	}
	home := t.TempDir()
	env := []string{
		"PATH=" + filepath.Dir(bin) + string(os.PathListSeparator) + os.Getenv("PATH"),
		"HOME=" + home,
		"XDG_CONFIG_HOME=" + filepath.Join(home, ".config"),
	}
	scripttest.Test(t, context.Background(), engine, env, "testdata/*.txt")
}

func buildTaskpad(t *testing.T) string {
	t.Helper()

	bin := filepath.Join(t.TempDir(), "taskpad")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("building taskpad: %v\n%s", err, out)
	}
	return bin
}
