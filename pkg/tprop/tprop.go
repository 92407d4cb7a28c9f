package tprop

import (
	"github.com/dd0wney/chronograph/pkg/gerrors"
	"github.com/dd0wney/chronograph/pkg/window"
)

// TProp is a TCell[Prop] with an additional rule: the variant of the first
// value written is locked in; a later Set with a different Kind is
// rejected, preserving the "typed column" assumption the view layer relies
// on (VertexView.PropertyHistory et al. hand back a single Kind per name).
type TProp struct {
	cell    TCell[Prop]
	kind    Kind
	hasKind bool
}

// Set records v at time t, enforcing the variant lock. Returns
// gerrors.ErrPropTypeMismatch if v's Kind differs from the first value ever
// written to this TProp.
func (p *TProp) Set(t int64, v Prop) error {
	if !p.hasKind {
		p.kind = v.Kind
		p.hasKind = true
	} else if v.Kind != p.kind {
		return gerrors.ErrPropTypeMismatch
	}
	p.cell.Set(t, v)
	return nil
}

// Kind returns the locked-in variant and whether any value has been
// written yet.
func (p *TProp) KindOf() (Kind, bool) {
	return p.kind, p.hasKind
}

// Iter returns the full property history in time order.
func (p *TProp) Iter() []TimeValue[Prop] {
	return p.cell.Iter()
}

// IterWindow returns the property history restricted to w.
func (p *TProp) IterWindow(w window.Window) []TimeValue[Prop] {
	return p.cell.IterWindow(w)
}

// ActiveIn reports whether the property was written at least once within w.
func (p *TProp) ActiveIn(w window.Window) bool {
	return p.cell.ActiveIn(w)
}
