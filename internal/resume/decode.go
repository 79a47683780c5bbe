package resume

import (
	"bytes"
	_ "embed"

	"github.com/goliatone/go-folio/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var resumeSchemaJSON []byte

var resumeSchema = validation.MustCompile("resume.json", resumeSchemaJSON)

// SchemaJSON returns the JSON schema resume files are validated against.
func SchemaJSON() []byte {
	return append([]byte(nil), resumeSchemaJSON...)
}

type itemDoc struct {
	Intro    *introDoc  `yaml:"intro"`
	Section  *string    `yaml:"section"`
	Entries  []itemDoc  `yaml:"entries"`
	Position *string    `yaml:"position"`
	Time     string     `yaml:"time"`
	Body     []blockDoc `yaml:"body"`
	Raw      *string    `yaml:"raw"`
}

type introDoc struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type blockDoc struct {
	Paragraph *string  `yaml:"paragraph"`
	List      []string `yaml:"list"`
}

// Decode reads a YAML resume file into composer specs. The file is a list
// of items, each one of intro, section (with entries), position (with time
// and body) or raw. Shape errors are reported as ErrInvalidResumeData;
// structural rules such as orphan entries are left to Compose.
func Decode(data []byte) ([]Spec, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, dataError(err, []string{err.Error()})
	}
	if err := resumeSchema.Validate(generic); err != nil {
		issues := validation.Issues(err)
		messages := make([]string, 0, len(issues))
		for _, issue := range issues {
			messages = append(messages, issue.String())
		}
		return nil, dataError(err, messages)
	}

	var items []itemDoc
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, dataError(err, []string{err.Error()})
	}
	return specsFromItems(items), nil
}

// DecodeAndCompose decodes data and composes the result.
func DecodeAndCompose(data []byte, opts ...ComposeOption) (*Document, error) {
	specs, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Compose(specs, opts...)
}

func specsFromItems(items []itemDoc) []Spec {
	if len(items) == 0 {
		return nil
	}
	specs := make([]Spec, 0, len(items))
	for _, item := range items {
		specs = append(specs, item.spec())
	}
	return specs
}

func (d itemDoc) spec() Spec {
	switch {
	case d.Intro != nil:
		return IntroSpec(d.Intro.Name, d.Intro.Role)
	case d.Section != nil:
		return SectionSpec(*d.Section, specsFromItems(d.Entries)...)
	case d.Position != nil:
		body := make([]Block, 0, len(d.Body))
		for _, block := range d.Body {
			body = append(body, block.block())
		}
		return PositionSpec(*d.Position, d.Time, body...)
	case d.Raw != nil:
		return RawSpec(*d.Raw)
	default:
		return Spec{}
	}
}

func (b blockDoc) block() Block {
	if b.Paragraph != nil {
		return Paragraph(*b.Paragraph)
	}
	return List(b.List...)
}
