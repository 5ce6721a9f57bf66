package domain

// Leaves returns every Pratyantardasha of one Mahadasha in chronological
// order. It returns nil when the Mahadasha is unknown.
//
// Example:
//
//	tree.Leaves("Ketu")
//	→ [Ketu/Ketu/Ketu, Ketu/Ketu/Venus, ..., Ketu/Mercury/Mercury]
func (t *Tree) Leaves(mahaLabel string) []Pratyantardasha {
	m := t.Find(mahaLabel)
	if m == nil {
		return nil
	}

	var out []Pratyantardasha
	for _, a := range m.Antars {
		out = append(out, a.Pratys...)
	}
	return out
}

// Remaining returns the Antardashas of the chain's Mahadasha that start
// after ref, i.e. what is still to come inside the current major period.
func (c Chain) Remaining(ref string) []*AntarNode {
	if c.Maha == nil {
		return nil
	}

	var out []*AntarNode
	for _, a := range c.Maha.Antars {
		if a.StartDate > ref {
			out = append(out, a)
		}
	}
	return out
}
