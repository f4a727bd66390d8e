package taxonomy

import (
	"path"
	"strings"
)

// Placement is a file's position derived from its directory depth.
type Placement struct {
	Parent        string
	Collection    string
	SubCollection string
}

// Depth returns the number of container levels below the parent.
func (p Placement) Depth() int {
	switch {
	case p.SubCollection != "":
		return 2
	case p.Collection != "":
		return 1
	default:
		return 0
	}
}

// Classify places file within spec. The directories below Base (after the
// parent, when ParentFromPath is set) are the stubs: the second to last stub
// is the collection and the last one the subcollection, so deeper trees keep
// their two innermost directories. A single stub is the collection. A
// subcollection named like its collection collapses to depth 1.
func Classify(spec SectionSpec, file string) Placement {
	segments := splitDir(relativeDir(spec.Base, path.Dir(cleanPath(file))))

	place := Placement{Parent: spec.Name}
	stubs := segments
	if spec.ParentFromPath && len(segments) > 0 {
		place.Parent = segments[0]
		stubs = segments[1:]
	}

	switch n := len(stubs); {
	case n > 1:
		place.Collection = stubs[n-2]
		if sub := stubs[n-1]; sub != place.Collection {
			place.SubCollection = sub
		}
	case n == 1:
		place.Collection = stubs[0]
	}
	return place
}

func relativeDir(base, dir string) string {
	base = strings.TrimSuffix(cleanPath(base), "/")
	if dir == "." {
		dir = ""
	}
	switch {
	case base == "" || base == ".":
		return dir
	case dir == base:
		return ""
	case strings.HasPrefix(dir, base+"/"):
		return dir[len(base)+1:]
	default:
		return dir
	}
}

func splitDir(dir string) []string {
	if dir == "" {
		return nil
	}
	parts := strings.Split(dir, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}

func cleanPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}
