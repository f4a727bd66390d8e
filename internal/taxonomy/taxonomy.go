// Package taxonomy classifies discovered files into the parent, collection
// and subcollection hierarchy and registers their bodies as partials.
package taxonomy

// Style selects how leaf slugs and output files are derived.
type Style string

const (
	// StylePath gives every leaf its own file mirroring the hierarchy.
	StylePath Style = "path"
	// StyleAnchor groups a collection's leaves into one file with fragments.
	StyleAnchor Style = "anchor"
)

// SectionSpec configures one discovery root.
type SectionSpec struct {
	Name string
	// Base is the directory classification is relative to.
	Base     string
	Patterns []string
	// LibraryPatterns select files registered as partials but kept out of
	// the tree.
	LibraryPatterns []string
	// ParentFromPath takes the parent from the first directory below Base
	// instead of using Name.
	ParentFromPath   bool
	RegisterPartials bool
	Style            Style
	Kind             Kind
}

// Section is the built tree for one SectionSpec.
type Section struct {
	Spec    SectionSpec
	Parents *Items
}

// Walk visits every leaf depth first in insertion order.
func (s *Section) Walk(fn func(*Leaf) error) error {
	return walkItems(s.Parents, fn)
}

func walkItems(items *Items, fn func(*Leaf) error) error {
	var err error
	items.Each(func(_ string, n Node) bool {
		switch typed := n.(type) {
		case *Leaf:
			err = fn(typed)
		case *Container:
			err = walkItems(typed.Items, fn)
		}
		return err == nil
	})
	return err
}

// Leaves returns the section's leaves in walk order.
func (s *Section) Leaves() []*Leaf {
	var out []*Leaf
	_ = s.Walk(func(l *Leaf) error {
		out = append(out, l)
		return nil
	})
	return out
}

// Taxonomy holds every section built during one build.
type Taxonomy struct {
	sections []*Section
	index    map[string]*Section
	library  []*Leaf
}

func New() *Taxonomy {
	return &Taxonomy{index: map[string]*Section{}}
}

// Sections returns sections in build order.
func (t *Taxonomy) Sections() []*Section {
	return append([]*Section(nil), t.sections...)
}

func (t *Taxonomy) Section(name string) (*Section, bool) {
	s, ok := t.index[name]
	return s, ok
}

// Library returns leaves registered as partials only.
func (t *Taxonomy) Library() []*Leaf {
	return append([]*Leaf(nil), t.library...)
}

// Leaves returns every tree leaf across sections in walk order.
func (t *Taxonomy) Leaves() []*Leaf {
	var out []*Leaf
	for _, s := range t.sections {
		out = append(out, s.Leaves()...)
	}
	return out
}

func (t *Taxonomy) ensureSection(spec SectionSpec) *Section {
	if s, ok := t.index[spec.Name]; ok {
		return s
	}
	s := &Section{Spec: spec, Parents: NewItems()}
	t.sections = append(t.sections, s)
	t.index[spec.Name] = s
	return s
}
