package taxonomy

// Kind names a node's position in the taxonomy.
type Kind string

const (
	KindParent        Kind = "parent"
	KindCollection    Kind = "collection"
	KindSubCollection Kind = "subcollection"
	KindPartial       Kind = "partial"
	KindPage          Kind = "page"
)

// IsContainer reports whether nodes of this kind hold items instead of content.
func (k Kind) IsContainer() bool {
	return k == KindParent || k == KindCollection || k == KindSubCollection
}

// Node is either a *Container or a *Leaf.
type Node interface {
	NodeID() string
	NodeKind() Kind
	node()
}

// Container groups child nodes. It never holds body content.
type Container struct {
	ID    string
	Name  string
	Slug  string
	Kind  Kind
	Items *Items
}

func newContainer(id, name, slug string, kind Kind) *Container {
	return &Container{ID: id, Name: name, Slug: slug, Kind: kind, Items: NewItems()}
}

func (c *Container) NodeID() string { return c.ID }
func (c *Container) NodeKind() Kind { return c.Kind }
func (c *Container) node()          {}

// Leaf is a single content file placed in the taxonomy.
type Leaf struct {
	// ID is the short base name with ordering digits, or the container
	// prefixed form when the short name collided with a sibling.
	ID string
	// PartialID is the id registered with the template engine.
	PartialID     string
	Name          string
	Slug          string
	Path          string
	Output        string
	Fragment      string
	Kind          Kind
	Section       string
	Parent        string
	Collection    string
	SubCollection string
	Source        string
	Data          map[string]any
	HTML          string
	Notes         string
	Spec          string
}

func (l *Leaf) NodeID() string { return l.ID }
func (l *Leaf) NodeKind() Kind { return l.Kind }
func (l *Leaf) node()          {}

// Depth returns 0, 1 or 2 for the number of container levels below the parent.
func (l *Leaf) Depth() int {
	switch {
	case l.SubCollection != "":
		return 2
	case l.Collection != "":
		return 1
	default:
		return 0
	}
}

// Namespace is the variable path under which the leaf's own data is exposed
// after token rewriting, such as "ns.dropdown__item".
func (l *Leaf) Namespace() string {
	return namespaceOf(l.PartialID)
}

// Items is an insertion-ordered map of child nodes.
type Items struct {
	keys  []string
	nodes map[string]Node
}

func NewItems() *Items {
	return &Items{nodes: map[string]Node{}}
}

func (it *Items) Len() int { return len(it.keys) }

// Keys returns the keys in insertion order.
func (it *Items) Keys() []string {
	return append([]string(nil), it.keys...)
}

func (it *Items) Get(key string) (Node, bool) {
	n, ok := it.nodes[key]
	return n, ok
}

// Set stores n under key. An existing entry is replaced in place and
// Set reports true.
func (it *Items) Set(key string, n Node) bool {
	if _, ok := it.nodes[key]; ok {
		it.nodes[key] = n
		return true
	}
	it.keys = append(it.keys, key)
	it.nodes[key] = n
	return false
}

// Rename moves the entry at from to to, keeping its position. An entry
// already stored under to is dropped.
func (it *Items) Rename(from, to string) bool {
	n, ok := it.nodes[from]
	if !ok || from == to {
		return false
	}
	if _, taken := it.nodes[to]; taken {
		it.remove(to)
	}
	for i, key := range it.keys {
		if key == from {
			it.keys[i] = to
			break
		}
	}
	delete(it.nodes, from)
	it.nodes[to] = n
	return true
}

func (it *Items) remove(key string) {
	delete(it.nodes, key)
	for i, k := range it.keys {
		if k == key {
			it.keys = append(it.keys[:i], it.keys[i+1:]...)
			return
		}
	}
}

// Each visits entries in insertion order until fn returns false.
func (it *Items) Each(fn func(key string, n Node) bool) {
	for _, key := range it.keys {
		if !fn(key, it.nodes[key]) {
			return
		}
	}
}
