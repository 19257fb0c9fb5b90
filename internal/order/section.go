package order

import "github.com/phobologic/waterfall/internal/syntax"

// Section is a maximal run of adjacent method definitions in a scope body.
// Visibility is the bare private/protected/public statement directly
// preceding the run, or nil when the run has the default visibility.
type Section struct {
	Visibility  *syntax.Node
	Definitions []*syntax.Node
	Start       int
	End         int
}

// Has reports whether the section defines name.
func (s *Section) Has(name string) bool {
	for _, d := range s.Definitions {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Names returns the section's method names in source order.
func (s *Section) Names() []string {
	names := make([]string, len(s.Definitions))
	for i, d := range s.Definitions {
		names[i] = d.Name
	}
	return names
}

// ExtractSections splits a scope body into runs of method definitions. A
// bare visibility modifier ends the current run and tags the next one. Any
// other statement, including a nested scope or a modifier with arguments,
// ends the run and clears the tag.
func ExtractSections(body []*syntax.Node) []Section {
	var (
		sections []Section
		current  []*syntax.Node
		tag      *syntax.Node
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		sections = append(sections, Section{
			Visibility:  tag,
			Definitions: current,
			Start:       current[0].Range.Start,
			End:         current[len(current)-1].Range.End,
		})
		current = nil
	}

	for _, st := range body {
		switch {
		case st.IsDefinition():
			current = append(current, st)
		case st.IsBareVisibility():
			flush()
			tag = st
		default:
			flush()
			tag = nil
		}
	}
	flush()

	return sections
}

// sectionWith returns the one section defining both names, if any.
func sectionWith(sections []Section, a, b string) (*Section, bool) {
	for i := range sections {
		if sections[i].Has(a) && sections[i].Has(b) {
			return &sections[i], true
		}
	}
	return nil, false
}
