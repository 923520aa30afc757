package cmd

import "testing"

func TestRootCommand_Subcommands(t *testing.T) {
	want := map[string]bool{"serve": false, "stdio": false, "version": false}
	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_Use(t *testing.T) {
	if rootCmd.Use != "wbserver" {
		t.Errorf("rootCmd.Use = %q, want wbserver", rootCmd.Use)
	}
}
