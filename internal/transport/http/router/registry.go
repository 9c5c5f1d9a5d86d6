package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// A module implements any of these to be mounted on the matching role group.
type (
	PublicModule interface{ MountPublic(*gin.RouterGroup) }
	UserModule   interface{ MountUser(*gin.RouterGroup) }
	OwnerModule  interface{ MountOwner(*gin.RouterGroup) }
	AdminModule  interface{ MountAdmin(*gin.RouterGroup) }
)

// Modules are mounted in ascending priority; 100 when not implemented.
type prioritizer interface{ Priority() int }

type Registry struct {
	mods []any
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

func (r *Registry) Register(mod any) { r.mods = append(r.mods, mod) }

func (r *Registry) sorted() []any {
	mods := append([]any(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	return mods
}

func (r *Registry) MountPublic(g *gin.RouterGroup) {
	for _, m := range r.sorted() {
		if pm, ok := m.(PublicModule); ok {
			pm.MountPublic(g)
		}
	}
}

func (r *Registry) MountUser(g *gin.RouterGroup) {
	for _, m := range r.sorted() {
		if um, ok := m.(UserModule); ok {
			um.MountUser(g)
		}
	}
}

func (r *Registry) MountOwner(g *gin.RouterGroup) {
	for _, m := range r.sorted() {
		if om, ok := m.(OwnerModule); ok {
			om.MountOwner(g)
		}
	}
}

func (r *Registry) MountAdmin(g *gin.RouterGroup) {
	for _, m := range r.sorted() {
		if am, ok := m.(AdminModule); ok {
			am.MountAdmin(g)
		}
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
