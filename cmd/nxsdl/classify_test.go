package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func TestClassifyCommand(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"POLLIN", "0x1"}, "POLLIN = 1: i16\n"},
		{[]string{"DT_DIR", "4"}, "DT_DIR = 4: u8\n"},
		{[]string{"S_IFMT", "0o170000"}, "S_IFMT = 61440: u32\n"},
		{[]string{"SDL_INIT_VIDEO", "32"}, "SDL_INIT_VIDEO = 32: i32\n"},
		{[]string{"SDL_BIG", "4294967296"}, "SDL_BIG = 4294967296: default (no rule matched)\n"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&buf)
		if err := classifyExecution(cmd, tc.args); err != nil {
			t.Fatalf("classify %q: %v", tc.args, err)
		}
		if buf.String() != tc.want {
			t.Errorf("classify %q = %q, want %q", tc.args, buf.String(), tc.want)
		}
	}
	if err := classifyExecution(&cobra.Command{}, []string{"X", "ten"}); err == nil {
		t.Fatal("expected error for bad value")
	}
}
