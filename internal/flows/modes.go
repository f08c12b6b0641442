package flows

import (
	"slices"

	"github.com/specialistvlad/flowgrid/internal/instance"
	"github.com/specialistvlad/flowgrid/internal/model"
)

// modeInstances resolves the in-modes of decl on ci. A declaration without
// modes inherits those of the nearest enclosing component below the root
// that is itself restricted to modes.
func modeInstances(ci *instance.ComponentInstance, decl any) []*instance.ModeInstance {
	if names := model.InModesOf(decl); len(names) > 0 {
		out := make([]*instance.ModeInstance, 0, len(names))
		for _, name := range names {
			if m := ci.Mode(name); m != nil {
				out = append(out, m)
			}
		}
		return out
	}
	for cur := ci; cur != nil && !cur.IsRoot(); cur = cur.Parent {
		if len(cur.InModes) > 0 {
			return cur.InModes
		}
	}
	return nil
}

// resolveModes computes the system operation modes in which every member
// of rec exists. It returns nil when the system has at most one mode.
func (p *pass) resolveModes(rec *record) []*instance.SystemOperationMode {
	if len(p.sys.SOMs) <= 1 {
		return nil
	}
	soms := slices.Clone(p.sys.SOMs)
	elements := rec.inst.Elements

	for _, e := range elements {
		var declared []*instance.SystemOperationMode
		switch el := e.(type) {
		case *instance.ConnectionInstance:
			declared = el.InSOMs
		case *instance.EndToEndFlowInstance:
			declared = el.InSOMs
		}
		if len(declared) == 0 {
			continue
		}
		soms = slices.DeleteFunc(soms, func(s *instance.SystemOperationMode) bool {
			return !slices.Contains(declared, s)
		})
	}

	for _, e := range elements {
		switch el := e.(type) {
		case *instance.FlowSpecInstance:
			soms = slices.DeleteFunc(soms, func(s *instance.SystemOperationMode) bool { return !el.IsActive(s) })
		case *instance.ComponentInstance:
			soms = slices.DeleteFunc(soms, func(s *instance.SystemOperationMode) bool { return !el.IsActive(s) })
		}
	}

	return slices.DeleteFunc(soms, func(s *instance.SystemOperationMode) bool {
		for _, modes := range rec.modeLists {
			if !s.ContainsAny(modes) {
				return true
			}
		}
		return false
	})
}
