// Package rule combines indicators into trading conditions.
package rule

import (
	"taengine/internal/series"
	"taengine/internal/trading"
)

// Rule is a trading condition evaluated at the series cursor. The record
// may be nil for rules that do not look at positions.
type Rule interface {
	IsSatisfied(record *trading.Record) bool
	Refresh(tick series.Tick)
	IsStable() bool
}

type constant bool

func (c constant) IsSatisfied(*trading.Record) bool { return bool(c) }
func (constant) Refresh(series.Tick)                {}
func (constant) IsStable() bool                     { return true }

// True and False are stateless and may be shared by any number of graphs.
const (
	True  constant = true
	False constant = false
)

// composite forwards a tick to its children once.
type composite struct {
	children []Rule
	guard    series.TickGuard
}

func (c *composite) Refresh(tick series.Tick) {
	if !c.guard.Enter(tick) {
		return
	}
	for _, r := range c.children {
		r.Refresh(tick)
	}
}

func (c *composite) IsStable() bool {
	for _, r := range c.children {
		if !r.IsStable() {
			return false
		}
	}
	return true
}

type and struct{ composite }

func (a *and) IsSatisfied(rec *trading.Record) bool {
	for _, r := range a.children {
		if !r.IsSatisfied(rec) {
			return false
		}
	}
	return true
}

// And is satisfied when every rule is.
func And(rules ...Rule) Rule {
	return &and{composite{children: rules}}
}

type or struct{ composite }

func (o *or) IsSatisfied(rec *trading.Record) bool {
	for _, r := range o.children {
		if r.IsSatisfied(rec) {
			return true
		}
	}
	return false
}

// Or is satisfied when any rule is.
func Or(rules ...Rule) Rule {
	return &or{composite{children: rules}}
}

type xor struct{ composite }

func (x *xor) IsSatisfied(rec *trading.Record) bool {
	return x.children[0].IsSatisfied(rec) != x.children[1].IsSatisfied(rec)
}

func Xor(a, b Rule) Rule {
	return &xor{composite{children: []Rule{a, b}}}
}

type not struct{ composite }

func (n *not) IsSatisfied(rec *trading.Record) bool {
	return !n.children[0].IsSatisfied(rec)
}

func Not(r Rule) Rule {
	return &not{composite{children: []Rule{r}}}
}
