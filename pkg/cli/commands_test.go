package cli

import (
	"fmt"
	"slices"
	"testing"

	"github.com/spf13/cobra"
)

// TestCommandTree verifies the CLI command hierarchy is correct.
func TestCommandTree(t *testing.T) {
	root := Root()

	expectedTopLevel := []string{
		"configure",
		"dashboard",
		"export",
		"machines",
		"mcp",
		"tags",
		"version",
	}

	gotTopLevel := childNames(root)
	slices.Sort(expectedTopLevel)

	if len(expectedTopLevel) != len(gotTopLevel) {
		t.Fatalf("top-level command count: got %d, want %d\n  got:  %v\n  want: %v",
			len(gotTopLevel), len(expectedTopLevel), gotTopLevel, expectedTopLevel)
	}
	for i := range expectedTopLevel {
		if expectedTopLevel[i] != gotTopLevel[i] {
			t.Errorf("top-level command mismatch at index %d: got %q, want %q\n  got:  %v\n  want: %v",
				i, gotTopLevel[i], expectedTopLevel[i], gotTopLevel, expectedTopLevel)
			break
		}
	}

	expectedSubcmdCounts := map[string]int{
		// list, stats
		"machines": 2,
		"mcp":      0,
	}

	for _, cmd := range root.Commands() {
		expected, ok := expectedSubcmdCounts[cmd.Name()]
		if !ok {
			continue
		}
		got := len(cmd.Commands())
		if got != expected {
			t.Errorf("%s subcommand count: got %d, want %d (commands: %v)",
				cmd.Name(), got, expected, childNames(cmd))
		}
	}
}

// TestCommandsHaveRequiredMetadata verifies every command has Use and Short fields set.
func TestCommandsHaveRequiredMetadata(t *testing.T) {
	root := Root()

	var walk func(cmd *cobra.Command, path string)
	walk = func(cmd *cobra.Command, path string) {
		if cmd.Use == "" {
			t.Errorf("%s: Use field is empty", path)
		}
		if cmd.Short == "" {
			t.Errorf("%s: Short field is empty", path)
		}
		for _, child := range cmd.Commands() {
			walk(child, path+"/"+child.Name())
		}
	}

	for _, cmd := range root.Commands() {
		walk(cmd, "landscapectl/"+cmd.Name())
	}
}

// TestOfflineCommands verifies which commands skip Landscape credentials.
func TestOfflineCommands(t *testing.T) {
	root := Root()

	tests := []struct {
		name        string
		wantOffline bool
	}{
		{"version", true},
		{"configure", true},
		{"mcp", false},
		{"dashboard", false},
		{"machines", false},
		{"tags", false},
		{"export", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := findSubcommand(root, tt.name)
			if cmd == nil {
				t.Fatalf("command %q not found", tt.name)
			}
			if got := isOffline(cmd); got != tt.wantOffline {
				t.Errorf("command %q offline = %v, want %v", tt.name, got, tt.wantOffline)
			}
		})
	}
}

// TestFlagDefaults verifies flag registration and defaults.
func TestFlagDefaults(t *testing.T) {
	root := Root()

	tests := []struct {
		path     []string
		flag     string
		defValue string
	}{
		{[]string{"mcp"}, "transport", "stdio"},
		{[]string{"dashboard"}, "with-mcp", "false"},
		{[]string{"machines", "list"}, "output", "table"},
		{[]string{"machines", "list"}, "status", "all"},
		{[]string{"machines", "list"}, "tag", "[]"},
		{[]string{"machines", "list"}, "annotation", "[]"},
		{[]string{"machines", "list"}, "search", ""},
		{[]string{"machines", "stats"}, "output", "table"},
		{[]string{"tags"}, "status", "all"},
		{[]string{"export"}, "format", "csv"},
		{[]string{"export"}, "file", ""},
		{[]string{"configure"}, "port", "8000"},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%v/%s", tt.path, tt.flag)
		t.Run(name, func(t *testing.T) {
			cmd := root
			for _, p := range tt.path {
				cmd = findSubcommand(cmd, p)
				if cmd == nil {
					t.Fatalf("command %v not found", tt.path)
				}
			}
			f := cmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("flag --%s not found on %v", tt.flag, tt.path)
			}
			if f.DefValue != tt.defValue {
				t.Errorf("flag --%s default = %q, want %q", tt.flag, f.DefValue, tt.defValue)
			}
		})
	}
}

// TestRootPersistentFlags verifies persistent flags on the root command.
func TestRootPersistentFlags(t *testing.T) {
	root := Root()

	persistentFlags := []string{"verbose"}
	for _, name := range persistentFlags {
		t.Run(name, func(t *testing.T) {
			f := root.PersistentFlags().Lookup(name)
			if f == nil {
				t.Fatalf("persistent flag --%s not found on root command", name)
			}
		})
	}
}

// TestArgsValidators verifies that commands enforce correct argument counts.
func TestArgsValidators(t *testing.T) {
	root := Root()

	tests := []struct {
		parent  string
		command string
		args    int
		wantErr bool
	}{
		{"", "mcp", 0, false},
		{"", "mcp", 1, true},
		{"", "dashboard", 1, true},
		{"", "tags", 1, true},
		{"", "export", 1, true},
		{"", "version", 1, true},
		{"", "configure", 1, false},
		{"", "configure", 2, true},
		{"machines", "list", 0, false},
		{"machines", "list", 1, true},
		{"machines", "stats", 1, true},
	}

	for _, tt := range tests {
		name := tt.command
		if tt.parent != "" {
			name = tt.parent + "/" + tt.command
		}
		t.Run(name+"/"+argsDesc(tt.args, tt.wantErr), func(t *testing.T) {
			var cmd *cobra.Command
			if tt.parent == "" {
				cmd = findSubcommand(root, tt.command)
			} else {
				parentCmd := findSubcommand(root, tt.parent)
				if parentCmd == nil {
					t.Fatalf("parent command %q not found", tt.parent)
				}
				cmd = findSubcommand(parentCmd, tt.command)
			}
			if cmd == nil {
				t.Fatalf("command %q not found", tt.command)
			}
			if cmd.Args == nil {
				if tt.wantErr {
					t.Errorf("command %q has no Args validator but expected error with %d args", name, tt.args)
				}
				return
			}
			args := make([]string, tt.args)
			for i := range args {
				args[i] = "test"
			}
			err := cmd.Args(cmd, args)
			if (err != nil) != tt.wantErr {
				t.Errorf("command %q Args(%d args) error = %v, wantErr %v", name, tt.args, err, tt.wantErr)
			}
		})
	}
}

// childNames returns sorted names of a command's direct children.
func childNames(cmd *cobra.Command) []string {
	children := cmd.Commands()
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name())
	}
	slices.Sort(names)
	return names
}

// findSubcommand finds a direct child command by name.
func findSubcommand(parent *cobra.Command, name string) *cobra.Command {
	for _, cmd := range parent.Commands() {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

// argsDesc returns a short description for test naming.
func argsDesc(n int, wantErr bool) string {
	if wantErr {
		return fmt.Sprintf("rejects_%d_args", n)
	}
	return fmt.Sprintf("accepts_%d_args", n)
}
