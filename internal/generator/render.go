package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-assemble/internal/logging"
	"github.com/goliatone/go-assemble/internal/taxonomy"
	"github.com/goliatone/go-assemble/internal/templates"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// RenderedPage captures the rendered HTML for one output file.
type RenderedPage struct {
	NodeID   string
	Section  string
	Output   string
	Layout   string
	HTML     string
	Duration time.Duration
	Checksum string
}

// sectionPlan is how one section renders.
type sectionPlan struct {
	section       *taxonomy.Section
	defaultLayout string
	frameLayout   string
	framed        map[string]struct{}
}

type renderer struct {
	state  *BuildState
	logger interfaces.Logger
	now    func() time.Time
	emit   func(RenderedPage) error
}

// renderSection renders every leaf of plan's section in walk order. Anchor
// sections render one page per output group.
func (r *renderer) renderSection(ctx context.Context, plan sectionPlan) error {
	if plan.section.Spec.Style == taxonomy.StyleAnchor {
		for _, group := range groupAnchors(plan.section) {
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err := r.renderGroup(plan, group)
			if err != nil {
				return err
			}
			if err := r.emit(page); err != nil {
				return err
			}
		}
		return nil
	}
	return plan.section.Walk(func(leaf *taxonomy.Leaf) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := r.renderLeaf(plan, leaf)
		if err != nil {
			return err
		}
		return r.emit(page)
	})
}

func (r *renderer) renderLeaf(plan sectionPlan, leaf *taxonomy.Leaf) (RenderedPage, error) {
	start := r.now()
	logging.WithNodeContext(r.logger, leaf.Source, leaf.Section, leaf.PartialID).Debug("generator.node.render")

	rc := BuildContext(r.state, leaf, plan.defaultLayout)
	tpl, layout, err := r.templateFor(plan, leaf, rc)
	if err != nil {
		return RenderedPage{}, err
	}
	html, err := templates.Render(r.state.Engine, leaf.PartialID, tpl, rc.Values)
	if err != nil {
		return RenderedPage{}, err
	}
	return RenderedPage{
		NodeID:   leaf.PartialID,
		Section:  leaf.Section,
		Output:   leaf.Output,
		Layout:   layout,
		HTML:     html,
		Duration: r.now().Sub(start),
	}, nil
}

// templateFor wraps the leaf body in its layout. Leaves under a framed
// parent without an explicit layout render the frame layout itself.
func (r *renderer) templateFor(plan sectionPlan, leaf *taxonomy.Leaf, rc RenderContext) (string, string, error) {
	if _, framed := plan.framed[leaf.Parent]; framed && layoutOf(leaf.Data) == "" {
		frame, err := r.state.Layouts.Get(plan.frameLayout)
		if err != nil {
			return "", "", err
		}
		return frame, plan.frameLayout, nil
	}
	wrapped, err := r.state.Layouts.Wrap(rc.Layout, leaf.HTML)
	if err != nil {
		return "", "", err
	}
	return wrapped, rc.Layout, nil
}

// anchorGroup is every leaf written to one anchor-style output file.
type anchorGroup struct {
	output    string
	leaves    []*taxonomy.Leaf
	container *taxonomy.Container
}

func groupAnchors(section *taxonomy.Section) []*anchorGroup {
	var groups []*anchorGroup
	index := map[string]*anchorGroup{}
	_ = section.Walk(func(leaf *taxonomy.Leaf) error {
		group, ok := index[leaf.Output]
		if !ok {
			group = &anchorGroup{output: leaf.Output}
			index[leaf.Output] = group
			groups = append(groups, group)
		}
		group.leaves = append(group.leaves, leaf)
		if group.container == nil && leaf.Fragment != "" {
			group.container = collectionOf(section, leaf)
		}
		return nil
	})
	return groups
}

func collectionOf(section *taxonomy.Section, leaf *taxonomy.Leaf) *taxonomy.Container {
	parentNode, ok := section.Parents.Get(leaf.Parent)
	if !ok {
		return nil
	}
	parent, ok := parentNode.(*taxonomy.Container)
	if !ok {
		return nil
	}
	collNode, ok := parent.Items.Get(leaf.Collection)
	if !ok {
		return nil
	}
	coll, _ := collNode.(*taxonomy.Container)
	return coll
}

// renderGroup renders a single depth 0 leaf as is. Otherwise the leaves are
// concatenated as <section id="fragment"> blocks and wrapped once with the
// collection's context.
func (r *renderer) renderGroup(plan sectionPlan, group *anchorGroup) (RenderedPage, error) {
	if group.container == nil && len(group.leaves) == 1 {
		return r.renderLeaf(plan, group.leaves[0])
	}
	start := r.now()

	var body strings.Builder
	for i, leaf := range group.leaves {
		if i > 0 {
			body.WriteString("\n")
		}
		if leaf.Fragment == "" {
			body.WriteString(leaf.HTML)
			continue
		}
		fmt.Fprintf(&body, "<section id=\"%s\">%s</section>", leaf.Fragment, leaf.HTML)
	}

	var (
		rc     RenderContext
		nodeID = group.output
	)
	if group.container != nil {
		rc = BuildContext(r.state, group.container, plan.defaultLayout)
		nodeID = group.container.ID
	} else {
		rc = BuildContext(r.state, group.leaves[0], plan.defaultLayout)
	}
	logging.WithNodeContext(r.logger, group.output, plan.section.Spec.Name, nodeID).Debug("generator.group.render", "leaves", len(group.leaves))

	tpl, err := r.state.Layouts.Wrap(rc.Layout, body.String())
	if err != nil {
		return RenderedPage{}, err
	}
	html, err := templates.Render(r.state.Engine, nodeID, tpl, rc.Values)
	if err != nil {
		return RenderedPage{}, err
	}
	return RenderedPage{
		NodeID:   nodeID,
		Section:  plan.section.Spec.Name,
		Output:   group.output,
		Layout:   rc.Layout,
		HTML:     html,
		Duration: r.now().Sub(start),
	}, nil
}
