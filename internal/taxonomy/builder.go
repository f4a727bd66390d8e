package taxonomy

import (
	"context"
	"path"
	"strings"

	"github.com/goliatone/go-assemble/internal/domain"
	"github.com/goliatone/go-assemble/internal/logging"
	"github.com/goliatone/go-assemble/internal/markdown"
	"github.com/goliatone/go-assemble/internal/naming"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// DefaultDelimiter joins a subcollection and a base name in partial ids.
const DefaultDelimiter = "__"

// Builder classifies files into a Taxonomy.
type Builder struct {
	resolver   interfaces.GlobResolver
	store      interfaces.FileStore
	engine     interfaces.TemplateEngine
	normalizer *markdown.Normalizer
	slugger    naming.Slugger
	delimiter  string
	logger     interfaces.Logger
}

// Option configures a Builder.
type Option func(*Builder)

func WithSlugger(s naming.Slugger) Option {
	return func(b *Builder) {
		if s != nil {
			b.slugger = s
		}
	}
}

func WithDelimiter(delimiter string) Option {
	return func(b *Builder) {
		if delimiter != "" {
			b.delimiter = delimiter
		}
	}
}

func WithNormalizer(n *markdown.Normalizer) Option {
	return func(b *Builder) {
		if n != nil {
			b.normalizer = n
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder wires a builder. The engine receives every partial registration.
func NewBuilder(resolver interfaces.GlobResolver, store interfaces.FileStore, engine interfaces.TemplateEngine, opts ...Option) *Builder {
	b := &Builder{
		resolver:   resolver,
		store:      store,
		engine:     engine,
		normalizer: markdown.NewNormalizer(nil, nil),
		slugger:    naming.StrictSlugger{},
		delimiter:  DefaultDelimiter,
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build creates a fresh Taxonomy from specs, in order.
func (b *Builder) Build(ctx context.Context, specs ...SectionSpec) (*Taxonomy, error) {
	tax := New()
	for _, spec := range specs {
		if err := b.AddSection(ctx, tax, spec); err != nil {
			return nil, err
		}
	}
	return tax, nil
}

// AddSection discovers and classifies the files of one section into tax.
// The first failing file aborts the section.
func (b *Builder) AddSection(ctx context.Context, tax *Taxonomy, spec SectionSpec) error {
	if spec.Kind == "" {
		spec.Kind = KindPage
	}
	if spec.Style == "" {
		spec.Style = StylePath
	}

	patterns := append(append([]string(nil), spec.Patterns...), spec.LibraryPatterns...)
	files, err := b.resolver.Resolve(patterns...)
	if err != nil {
		return domain.NewIOError("resolve", spec.Name, err)
	}

	library := map[string]struct{}{}
	if len(spec.LibraryPatterns) > 0 {
		libFiles, err := b.resolver.Resolve(spec.LibraryPatterns...)
		if err != nil {
			return domain.NewIOError("resolve", spec.Name, err)
		}
		for _, file := range libFiles {
			library[file] = struct{}{}
		}
	}

	section := tax.ensureSection(spec)
	b.logger.Debug("taxonomy.section.start", "section", spec.Name, "files", len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, libraryOnly := library[file]
		leaf, err := b.load(spec, file)
		if err != nil {
			return err
		}
		if spec.RegisterPartials || libraryOnly {
			if b.engine.RegisterPartial(leaf.PartialID, leaf.HTML) {
				logging.WithNodeContext(b.logger, file, spec.Name, leaf.PartialID).
					Warn("taxonomy.partial.replaced")
			}
		}
		if libraryOnly {
			tax.library = append(tax.library, leaf)
			continue
		}
		b.attach(section, leaf)
	}
	return nil
}

func (b *Builder) load(spec SectionSpec, file string) (*Leaf, error) {
	place := Classify(spec, file)
	id := naming.NameOf(file, true)
	partialID := id
	if place.SubCollection != "" {
		partialID = place.SubCollection + b.delimiter + id
	}

	raw, err := b.store.ReadFile(file)
	if err != nil {
		return nil, domain.NewIOError("read", file, err)
	}
	doc, err := b.normalizer.Normalize(file, raw)
	if err != nil {
		return nil, err
	}

	leaf := &Leaf{
		ID:            id,
		PartialID:     partialID,
		Name:          naming.TitleCase(id),
		Kind:          spec.Kind,
		Section:       spec.Name,
		Parent:        place.Parent,
		Collection:    place.Collection,
		SubCollection: place.SubCollection,
		Source:        file,
		Data:          doc.Data,
		HTML:          RewriteTokens(doc.Body, doc.Data, namespaceOf(partialID)),
		Notes:         doc.Notes,
		Spec:          doc.Spec,
	}
	b.assignSlug(spec, place, leaf, naming.NameOf(file, false))
	return leaf, nil
}

func (b *Builder) assignSlug(spec SectionSpec, place Placement, leaf *Leaf, name string) {
	segments := make([]string, 0, 4)
	for _, segment := range []string{place.Parent, place.Collection, place.SubCollection, name} {
		if s := b.slugger.Slug(segment); s != "" {
			segments = append(segments, s)
		}
	}
	leaf.Path = strings.Join(segments, "/")

	if spec.Style != StyleAnchor {
		leaf.Slug = leaf.Path
		leaf.Output = leaf.Path + ".html"
		return
	}

	parentDir := b.slugger.Slug(place.Parent)
	if place.Collection == "" {
		leaf.Slug = b.slugger.Slug(name) + ".html"
		leaf.Output = path.Join(parentDir, leaf.Slug)
		return
	}
	page := b.slugger.Slug(place.Collection) + ".html"
	fragment := name
	if place.SubCollection != "" {
		fragment = place.SubCollection + b.delimiter + name
	}
	leaf.Fragment = b.slugger.Slug(fragment)
	leaf.Slug = page + "#" + leaf.Fragment
	leaf.Output = path.Join(parentDir, page)
}

func (b *Builder) attach(section *Section, leaf *Leaf) {
	target := b.ensureContainer(section.Parents, section.Spec.Name, leaf.Parent, KindParent, b.slugger.Slug(leaf.Parent))
	if leaf.Collection != "" {
		target = b.ensureContainer(target.Items, target.ID, leaf.Collection, KindCollection,
			path.Join(target.Slug, b.slugger.Slug(leaf.Collection)))
	}
	if leaf.SubCollection != "" {
		target = b.ensureContainer(target.Items, target.ID, leaf.SubCollection, KindSubCollection,
			path.Join(target.Slug, b.slugger.Slug(leaf.SubCollection)))
	}

	key := leaf.ID
	if _, taken := target.Items.Get(key); taken {
		key = target.ID + b.delimiter + leaf.ID
		if _, taken := target.Items.Get(key); taken {
			logging.WithNodeContext(b.logger, leaf.Source, leaf.Section, key).Warn("taxonomy.leaf.replaced")
		}
		b.rekey(leaf, key)
	}
	target.Items.Set(key, leaf)
}

// rekey stores key as the leaf id and derives its slug, path and output from
// it, so a prefixed sibling never shares a file or fragment with the leaf it
// collided with.
func (b *Builder) rekey(leaf *Leaf, key string) {
	leaf.ID = key
	slug := b.slugger.Slug(key)
	leaf.Path = path.Join(path.Dir(leaf.Path), slug)
	switch {
	case leaf.Fragment != "":
		page, _, _ := strings.Cut(leaf.Slug, "#")
		leaf.Fragment = slug
		leaf.Slug = page + "#" + slug
	case strings.HasSuffix(leaf.Slug, ".html"):
		// anchor leaf without a collection
		leaf.Slug = slug + ".html"
		leaf.Output = path.Join(path.Dir(leaf.Output), leaf.Slug)
	default:
		leaf.Slug = leaf.Path
		leaf.Output = leaf.Path + ".html"
	}
}

// ensureContainer returns the container stored under id, creating it once.
// A leaf already holding id is re-keyed with the owner prefix and keeps its
// position.
func (b *Builder) ensureContainer(items *Items, ownerID, id string, kind Kind, slug string) *Container {
	if existing, ok := items.Get(id); ok {
		if c, ok := existing.(*Container); ok {
			return c
		}
		if leaf, ok := existing.(*Leaf); ok {
			rekeyed := ownerID + b.delimiter + leaf.ID
			logging.WithNodeContext(b.logger, leaf.Source, leaf.Section, rekeyed).Warn("taxonomy.leaf.rekeyed")
			items.Rename(id, rekeyed)
			b.rekey(leaf, rekeyed)
		}
	}
	c := newContainer(id, naming.TitleCase(id), slug, kind)
	items.Set(id, c)
	return c
}
