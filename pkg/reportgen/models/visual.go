package models

// Visual is one renderable component produced for a token. The set of
// implementations is closed: *ChartSpec, *ChartGroupSpec, *TableSpec,
// *FilterSpec and *Notice.
type Visual interface {
	// ElementID returns the generated id of the component's container element.
	ElementID() string
	visual()
}

func (*ChartSpec) visual()      {}
func (*ChartGroupSpec) visual() {}
func (*TableSpec) visual()      {}
func (*FilterSpec) visual()     {}
func (*Notice) visual()         {}

func (c *ChartSpec) ElementID() string      { return c.ID }
func (g *ChartGroupSpec) ElementID() string { return g.ID }
func (t *TableSpec) ElementID() string      { return t.ID }
func (f *FilterSpec) ElementID() string     { return f.ID }
func (n *Notice) ElementID() string         { return n.ID }
