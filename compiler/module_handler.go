package compiler

import (
	"github.com/flowql/compiler/diagnostics"
	"github.com/flowql/compiler/object"
)

// ModuleHandler is the process-scoped registry of importable modules,
// initialized once per compile before evaluation starts (spec.md §3).
type ModuleHandler struct {
	modules map[string]*object.Module
}

func NewModuleHandler() *ModuleHandler {
	return &ModuleHandler{modules: make(map[string]*object.Module)}
}

// Register binds a module object under name, typically called once at
// startup for the platform module and once per entry of the module map
// (Input 2) as user modules are materialized.
func (h *ModuleHandler) Register(name string, mod *object.Module) {
	h.modules[name] = mod
}

func (h *ModuleHandler) Lookup(pos diagnostics.Position, name string) (*object.Module, error) {
	m, ok := h.modules[name]
	if !ok {
		return nil, diagnostics.ImportErrorf(pos, "no module named '%s'", name)
	}
	return m, nil
}
