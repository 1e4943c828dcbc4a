package dispatch

import (
	"io"

	"github.com/karussell/bach/pkg/registry"
)

// Tool is an in-process callable invoked under an executable name. Run
// receives the output and error sinks plus the argument list and returns
// an integer exit code, mirroring the external-process contract.
type Tool interface {
	Name() string
	Run(out, errOut io.Writer, args ...string) int
}

// ToolFunc adapts a plain function to the Tool interface
type ToolFunc struct {
	ToolName string
	Fn       func(out, errOut io.Writer, args ...string) int
}

func (t ToolFunc) Name() string { return t.ToolName }

func (t ToolFunc) Run(out, errOut io.Writer, args ...string) int {
	return t.Fn(out, errOut, args...)
}

// providers is the process-wide tool registry. Packages providing tools
// register themselves in init, the way database/sql drivers do; the
// dispatcher consults it after the session's own custom tools.
var providers = registry.New[Tool]()

// Register adds a tool to the process-wide provider registry
func Register(tool Tool) error {
	return providers.Register(tool.Name(), tool)
}

// Lookup finds a registered provider by executable name
func Lookup(name string) (Tool, bool) {
	tool, err := providers.Get(name)
	if err != nil {
		return nil, false
	}
	return tool, true
}

// Providers returns the names of all registered providers
func Providers() []string {
	return providers.List()
}
