package records

// Assignment is a column and the value it should take.
type Assignment struct {
	Column Column
	Value  any
}

// Diff returns the columns whose values differ between before and after, in
// column order, carrying the values of after.
func (m *Mapper[R]) Diff(before, after *R) []Assignment {
	var changes []Assignment
	for _, f := range m.fields {
		if f.equal(before, after) {
			continue
		}
		changes = append(changes, Assignment{Column: f.Column, Value: f.get(after)})
	}
	return changes
}

// Apply writes each assignment onto r. On error r is left unchanged.
func (m *Mapper[R]) Apply(r *R, set []Assignment) error {
	tmp := *r
	for _, a := range set {
		if err := m.Set(&tmp, a.Column.Name, a.Value); err != nil {
			return err
		}
	}
	*r = tmp
	return nil
}

// Changed reports whether the named column appears in set.
func Changed(set []Assignment, name string) bool {
	for _, a := range set {
		if a.Column.Name == name {
			return true
		}
	}
	return false
}
