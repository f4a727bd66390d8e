package interfaces

// DataLoader decodes a site data file into a generic value tree.
type DataLoader interface {
	Load(source []byte) (any, error)
}

// HTMLFormatter re-indents rendered HTML. Formatting is cosmetic and must not
// change the document text.
type HTMLFormatter interface {
	Format(html string) (string, error)
}
