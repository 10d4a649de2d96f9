package domain

// ExecCommand represents an external command to be executed.
// This type is used to pass command information between layers
// without exposing implementation details.
type ExecCommand struct {
	Env     []string // Extra KEY=VALUE entries appended to the process environment
	Program string
	Dir     string
	Args    []string
}

// NewCommand creates an ExecCommand for program with args.
func NewCommand(program string, args []string, dir string) *ExecCommand {
	return &ExecCommand{
		Program: program,
		Args:    args,
		Dir:     dir,
	}
}

// NewShellCommand creates an ExecCommand that runs script through sh -c.
func NewShellCommand(script, dir string) *ExecCommand {
	return &ExecCommand{
		Program: "sh",
		Args:    []string{"-c", script},
		Dir:     dir,
	}
}
