package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
)

// execute runs the root command with args and returns what it wrote to
// stdout. Flag variables are reset because the command tree is global.
func execute(args ...string) (string, string, error) {
	verbose = ""
	typesOpts.format = "text"
	layoutOpts.arch = ""

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// TestGolden runs every archive in testdata. An archive holds the command
// line in "args", the expected output in "stdout" and, for failing commands,
// the expected error in "error". Archives with a "skip" file are skipped in
// short mode.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			sections := map[string]string{}
			for _, f := range ar.Files {
				sections[f.Name] = string(f.Data)
			}
			if reason, ok := sections["skip"]; ok && testing.Short() {
				t.Skip(strings.TrimSpace(reason))
			}

			stdout, _, err := execute(strings.Fields(sections["args"])...)
			if want, ok := sections["error"]; ok {
				if err == nil {
					t.Fatalf("expected error %q", strings.TrimSpace(want))
				}
				if got := err.Error() + "\n"; got != want {
					t.Errorf("expected error %q, got %q", want, got)
				}
			} else if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(sections["stdout"], stdout); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTypesTable(t *testing.T) {
	stdout, _, err := execute("types")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("missing header: %q", lines[0])
	}

	// Types come in layout order: the built-ins before the types using them
	index := map[string]int{}
	for i, line := range lines[1:] {
		index[strings.Fields(line)[0]] = i
	}
	for _, name := range []string{"void", "cstr", "String", "String*", "Vector"} {
		if _, ok := index[name]; !ok {
			t.Errorf("%s is not listed", name)
		}
	}
	if index["type"] > index["Vector"] {
		t.Errorf("Vector is listed before the type of its elem field")
	}
	if !strings.Contains(stdout, ".ctor,.dtor,cstr,len,append,prepend") {
		t.Errorf("String members are not listed:\n%s", stdout)
	}
}

func TestVerbosity(t *testing.T) {
	_, stderr, err := execute("demo", "--verbose", "info")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "demo finished") {
		t.Errorf("expected an info record, got %q", stderr)
	}

	if _, _, err = execute("demo", "--verbose", "loud"); err == nil {
		t.Errorf("expected an unknown verbosity to fail")
	}
}
