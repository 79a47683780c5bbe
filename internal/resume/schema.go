package resume

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Intro is the name/role header shown at the top of the resume.
type Intro struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Validate ensures both header fields are present.
func (i Intro) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required, validation.By(notBlank)),
		validation.Field(&i.Role, validation.Required, validation.By(notBlank)),
	)
}

// BlockKind tags the content blocks allowed inside a Position body.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
)

// Block is a paragraph (Text) or a bullet list (Items).
type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
}

// Paragraph builds a paragraph block.
func Paragraph(text string) Block {
	return Block{Kind: BlockParagraph, Text: text}
}

// List builds a bullet list block.
func List(items ...string) Block {
	return Block{Kind: BlockList, Items: append([]string(nil), items...)}
}

// Position is a single, optionally time bounded, entry of a Section.
type Position struct {
	Heading   string  `json:"heading"`
	TimeRange string  `json:"time_range,omitempty"`
	Body      []Block `json:"body,omitempty"`
}

// RawBlock is free content placed directly in a Section.
type RawBlock struct {
	Text string `json:"text"`
}

// Entry is one child of a Section: either a Position or a RawBlock.
type Entry struct {
	Position *Position `json:"position,omitempty"`
	Raw      *RawBlock `json:"raw,omitempty"`
}

// Section groups entries under a heading ("Experience", "Education").
type Section struct {
	Heading string  `json:"heading"`
	Entries []Entry `json:"entries"`
}

// SpecKind identifies what a Spec describes.
type SpecKind string

const (
	SpecIntro    SpecKind = "intro"
	SpecSection  SpecKind = "section"
	SpecPosition SpecKind = "position"
	SpecRaw      SpecKind = "raw"
)

// Spec is the composer input: an ordered, possibly nested, description of
// the resume as authored by the page layer.
type Spec struct {
	Kind SpecKind

	Heading   string
	TimeRange string
	Body      []Block
	Text      string
	Intro     Intro

	// Entries holds the children of a section spec.
	Entries []Spec
}

// IntroSpec describes the resume header.
func IntroSpec(name, role string) Spec {
	return Spec{Kind: SpecIntro, Intro: Intro{Name: name, Role: role}}
}

// SectionSpec describes a section and its entries.
func SectionSpec(heading string, entries ...Spec) Spec {
	return Spec{Kind: SpecSection, Heading: heading, Entries: entries}
}

// PositionSpec describes a position entry.
func PositionSpec(heading, timeRange string, body ...Block) Spec {
	return Spec{Kind: SpecPosition, Heading: heading, TimeRange: timeRange, Body: body}
}

// RawSpec describes a raw content block entry.
func RawSpec(text string) Spec {
	return Spec{Kind: SpecRaw, Text: text}
}

func notBlank(value any) error {
	text, _ := value.(string)
	if strings.TrimSpace(text) == "" {
		return validation.NewError("folio.resume.blank", "cannot be blank")
	}
	return nil
}
