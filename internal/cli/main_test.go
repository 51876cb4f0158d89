package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootHasSubcommands(t *testing.T) {
	root := newRoot()
	want := map[string]bool{"process": false, "serve": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestProcessRequiresArgument(t *testing.T) {
	root := newRoot()
	root.SetArgs([]string{"process"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	if err := root.Execute(); err == nil {
		t.Fatal("expected an error without an input argument")
	}
}

func TestUnknownCommandFails(t *testing.T) {
	root := newRoot()
	root.SetArgs([]string{"frobnicate"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("error does not name the bad command: %v", err)
	}
}
