package resume

import (
	"fmt"
	"strings"
)

// NodeKind identifies a node in the composed document tree.
type NodeKind string

const (
	NodeIntro    NodeKind = "intro"
	NodeSection  NodeKind = "section"
	NodePosition NodeKind = "position"
	NodeRaw      NodeKind = "raw"
)

const (
	introLevel          = 1
	defaultSectionLevel = 2
	maxHeadingLevel     = 6
)

// Node is a render ready element of the resume. Level is the heading depth
// the rendering layer should use (1 for the intro, h2 for sections, etc).
type Node struct {
	Kind      NodeKind `json:"kind"`
	Level     int      `json:"level"`
	Heading   string   `json:"heading,omitempty"`
	TimeRange string   `json:"time_range,omitempty"`
	Text      string   `json:"text,omitempty"`
	Intro     *Intro   `json:"intro,omitempty"`
	Body      []Block  `json:"body,omitempty"`
	Children  []Node   `json:"children,omitempty"`
}

// Document is the composed resume tree. Nodes keep the authored order.
type Document struct {
	SectionLevel int    `json:"section_level"`
	Nodes        []Node `json:"nodes"`
}

// Intro returns the intro node, if one was composed.
func (d *Document) Intro() (Node, bool) {
	if d == nil {
		return Node{}, false
	}
	for _, node := range d.Nodes {
		if node.Kind == NodeIntro {
			return node, true
		}
	}
	return Node{}, false
}

// Sections returns the section nodes in document order.
func (d *Document) Sections() []Node {
	if d == nil {
		return nil
	}
	out := make([]Node, 0, len(d.Nodes))
	for _, node := range d.Nodes {
		if node.Kind == NodeSection {
			out = append(out, node)
		}
	}
	return out
}

// Schema converts the tree back into schema values.
func (d *Document) Schema() (*Intro, []Section) {
	if d == nil {
		return nil, nil
	}
	var intro *Intro
	var sections []Section
	for _, node := range d.Nodes {
		switch node.Kind {
		case NodeIntro:
			if node.Intro != nil {
				value := *node.Intro
				intro = &value
			}
		case NodeSection:
			section := Section{Heading: node.Heading, Entries: make([]Entry, 0, len(node.Children))}
			for _, child := range node.Children {
				switch child.Kind {
				case NodePosition:
					section.Entries = append(section.Entries, Entry{Position: &Position{
						Heading:   child.Heading,
						TimeRange: child.TimeRange,
						Body:      cloneBlocks(child.Body),
					}})
				case NodeRaw:
					section.Entries = append(section.Entries, Entry{Raw: &RawBlock{Text: child.Text}})
				}
			}
			sections = append(sections, section)
		}
	}
	return intro, sections
}

// Validate checks that every entry sits exactly one level below its section
// and that only intro and section nodes appear at the top level.
func (d *Document) Validate() error {
	if d == nil {
		return nil
	}
	sectionLevel := d.SectionLevel
	if sectionLevel == 0 {
		sectionLevel = defaultSectionLevel
	}
	intros := 0
	for i, node := range d.Nodes {
		path := fmt.Sprintf("nodes[%d]", i)
		switch node.Kind {
		case NodeIntro:
			intros++
			if intros > 1 {
				return duplicateIntroError(path)
			}
			if node.Level != introLevel || len(node.Children) > 0 {
				return nestingError(path, SpecIntro)
			}
		case NodeSection:
			if node.Level != sectionLevel {
				return nestingError(path, SpecSection)
			}
			for j, child := range node.Children {
				childPath := fmt.Sprintf("%s.children[%d]", path, j)
				if child.Kind != NodePosition && child.Kind != NodeRaw {
					return nestingError(childPath, SpecKind(child.Kind))
				}
				if child.Level != node.Level+1 || len(child.Children) > 0 {
					return nestingError(childPath, SpecKind(child.Kind))
				}
			}
		case NodePosition, NodeRaw:
			return orphanError(path, SpecKind(node.Kind))
		default:
			return unknownSpecError(path, SpecKind(node.Kind))
		}
	}
	return nil
}

// ComposeOption customises Compose.
type ComposeOption func(*composer)

// WithSectionLevel sets the heading level used for sections. Entries are
// placed one level below.
func WithSectionLevel(level int) ComposeOption {
	return func(c *composer) {
		c.sectionLevel = level
	}
}

type composer struct {
	sectionLevel int
	sawIntro     bool
}

// Compose walks specs in order and builds the resume tree. Sections own
// their entries in the order given; nothing is sorted or deduplicated.
func Compose(specs []Spec, opts ...ComposeOption) (*Document, error) {
	c := &composer{sectionLevel: defaultSectionLevel}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.sectionLevel <= introLevel || c.sectionLevel >= maxHeadingLevel {
		return nil, headingLevelError(c.sectionLevel)
	}

	doc := &Document{
		SectionLevel: c.sectionLevel,
		Nodes:        make([]Node, 0, len(specs)),
	}
	for i, spec := range specs {
		node, err := c.composeTop(fmt.Sprintf("specs[%d]", i), spec)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, node)
	}
	return doc, nil
}

func (c *composer) composeTop(path string, spec Spec) (Node, error) {
	switch spec.Kind {
	case SpecIntro:
		if c.sawIntro {
			return Node{}, duplicateIntroError(path)
		}
		if err := spec.Intro.Validate(); err != nil {
			return Node{}, introError(path, err)
		}
		c.sawIntro = true
		intro := Intro{
			Name: strings.TrimSpace(spec.Intro.Name),
			Role: strings.TrimSpace(spec.Intro.Role),
		}
		return Node{Kind: NodeIntro, Level: introLevel, Heading: intro.Name, Intro: &intro}, nil
	case SpecSection:
		return c.composeSection(path, spec)
	case SpecPosition, SpecRaw:
		return Node{}, orphanError(path, spec.Kind)
	default:
		return Node{}, unknownSpecError(path, spec.Kind)
	}
}

func (c *composer) composeSection(path string, spec Spec) (Node, error) {
	heading := strings.TrimSpace(spec.Heading)
	if heading == "" {
		return Node{}, emptyHeadingError(path, SpecSection)
	}
	section := Node{
		Kind:     NodeSection,
		Level:    c.sectionLevel,
		Heading:  heading,
		Children: make([]Node, 0, len(spec.Entries)),
	}
	for i, entry := range spec.Entries {
		entryPath := fmt.Sprintf("%s.entries[%d]", path, i)
		switch entry.Kind {
		case SpecPosition:
			positionHeading := strings.TrimSpace(entry.Heading)
			if positionHeading == "" {
				return Node{}, emptyHeadingError(entryPath, SpecPosition)
			}
			if len(entry.Entries) > 0 {
				return Node{}, nestingError(entryPath+".entries[0]", entry.Entries[0].Kind)
			}
			section.Children = append(section.Children, Node{
				Kind:      NodePosition,
				Level:     section.Level + 1,
				Heading:   positionHeading,
				TimeRange: strings.TrimSpace(entry.TimeRange),
				Body:      cloneBlocks(entry.Body),
			})
		case SpecRaw:
			section.Children = append(section.Children, Node{
				Kind:  NodeRaw,
				Level: section.Level + 1,
				Text:  entry.Text,
			})
		case SpecSection, SpecIntro:
			return Node{}, nestingError(entryPath, entry.Kind)
		default:
			return Node{}, unknownSpecError(entryPath, entry.Kind)
		}
	}
	return section, nil
}

func cloneBlocks(blocks []Block) []Block {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]Block, len(blocks))
	for i, block := range blocks {
		out[i] = Block{Kind: block.Kind, Text: block.Text}
		if block.Items != nil {
			out[i].Items = append([]string(nil), block.Items...)
		}
	}
	return out
}
