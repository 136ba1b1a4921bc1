package router

import "github.com/gin-gonic/gin"

// Registry collects route modules and mounts them on the engine's root
// group, so a module's registered path is its public path (/auth/login,
// /admin/users/:id). Engine-wide middleware belongs on the engine itself;
// per-group middleware belongs to the module that owns the group.
type Registry struct {
	engine  *gin.Engine
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{engine: engine}
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// Mount registers every added module's routes. Called once at startup,
// after all modules are added.
func (r *Registry) Mount() {
	for _, m := range r.modules {
		m.Register(&r.engine.RouterGroup)
	}
}
