package posts

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const (
	fieldTitle      = "title"
	fieldDate       = "date"
	fieldCategories = "categories"
	fieldTags       = "tags"
	fieldImage      = "image"

	fieldImagePath    = "path"
	fieldImageCaption = "caption"
)

// Metadata is the normalized content of a post's metadata block.
type Metadata struct {
	Title      string
	Date       time.Time
	Categories StringSet
	Tags       StringSet
	Image      *Image
	// Extra keeps every field without a dedicated decoder.
	Extra map[string]Value
}

// fieldDecoder reports whether the field carried a value.
type fieldDecoder func(meta *Metadata, value Value) (bool, error)

var fieldDecoders = map[string]fieldDecoder{
	fieldTitle:      decodeTitle,
	fieldDate:       decodeDate,
	fieldCategories: decodeCategories,
	fieldTags:       decodeTags,
	fieldImage:      decodeImage,
}

var requiredFields = []string{fieldTitle, fieldDate}

var byteOrderMark = []byte("\ufeff")

var metadataFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", unmarshalYAMLNode),
	frontmatter.NewFormat("+++", "+++", unmarshalTOMLTree),
}

// ParseMetadata splits raw into its metadata block and body and decodes the
// block. The body is returned untouched.
func ParseMetadata(raw []byte) (Metadata, []byte, error) {
	var block Value
	raw = bytes.TrimPrefix(raw, byteOrderMark)
	body, err := frontmatter.MustParse(bytes.NewReader(raw), &block, metadataFormats...)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return Metadata{}, nil, missingDelimiterError(nil)
		}
		return Metadata{}, nil, malformedMetadataError(err)
	}

	meta, err := decodeMetadata(block)
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, body, nil
}

func decodeMetadata(block Value) (Metadata, error) {
	meta := Metadata{Extra: map[string]Value{}}
	if block.Kind != KindObject && !block.IsNull() {
		return Metadata{}, malformedMetadataError(fmt.Errorf("metadata block must be a mapping, got %s", block.Kind))
	}

	present := make(map[string]bool, len(fieldDecoders))
	for _, key := range block.Keys() {
		value := block.Object[key]
		decode, ok := fieldDecoders[key]
		if !ok {
			meta.Extra[key] = value
			continue
		}
		set, err := decode(&meta, value)
		if err != nil {
			return Metadata{}, err
		}
		present[key] = set
	}

	for _, field := range requiredFields {
		if !present[field] {
			return Metadata{}, missingFieldError(field)
		}
	}
	return meta, nil
}

func decodeTitle(meta *Metadata, value Value) (bool, error) {
	if value.IsNull() {
		return false, nil
	}
	text, ok := value.Text()
	if !ok {
		return false, fieldTypeError(fieldTitle, KindScalar, value.Kind)
	}
	meta.Title = text
	return text != "", nil
}

// decodeDate treats a null or blank date as absent. Any other value that is
// not a parseable scalar is an invalid date, including lists and objects.
func decodeDate(meta *Metadata, value Value) (bool, error) {
	if value.IsNull() {
		return false, nil
	}
	text, ok := value.Text()
	if !ok {
		return false, invalidDateError(fmt.Sprint(value.Interface()))
	}
	if text == "" {
		return false, nil
	}
	parsed, err := ParseDate(text)
	if err != nil {
		return false, err
	}
	meta.Date = parsed
	return true, nil
}

func decodeCategories(meta *Metadata, value Value) (bool, error) {
	names, err := decodeNames(fieldCategories, value)
	if err != nil {
		return false, err
	}
	meta.Categories = names
	return !value.IsNull(), nil
}

func decodeTags(meta *Metadata, value Value) (bool, error) {
	names, err := decodeNames(fieldTags, value)
	if err != nil {
		return false, err
	}
	meta.Tags = names
	return !value.IsNull(), nil
}

func decodeNames(field string, value Value) (StringSet, error) {
	switch value.Kind {
	case KindNull:
		return StringSet{}, nil
	case KindScalar:
		return NewStringSet(value.Scalar), nil
	case KindList:
		names := make([]string, 0, len(value.List))
		for _, item := range value.List {
			if item.IsNull() {
				continue
			}
			text, ok := item.Text()
			if !ok {
				return nil, fieldTypeError(field, KindScalar, item.Kind)
			}
			names = append(names, text)
		}
		return NewStringSet(names...), nil
	default:
		return nil, fieldTypeError(field, KindList, value.Kind)
	}
}

func decodeImage(meta *Metadata, value Value) (bool, error) {
	var image Image
	switch value.Kind {
	case KindNull:
		return false, nil
	case KindScalar:
		image.Path = strings.TrimSpace(value.Scalar)
	case KindObject:
		for _, key := range value.Keys() {
			item := value.Object[key]
			switch key {
			case fieldImagePath, fieldImageCaption:
				if item.IsNull() {
					continue
				}
				text, ok := item.Text()
				if !ok {
					return false, fieldTypeError(fieldImage+"."+key, KindScalar, item.Kind)
				}
				if key == fieldImagePath {
					image.Path = text
				} else {
					image.Caption = text
				}
			default:
				if image.Extra == nil {
					image.Extra = map[string]Value{}
				}
				image.Extra[key] = item
			}
		}
	default:
		return false, fieldTypeError(fieldImage, KindObject, value.Kind)
	}
	if err := image.Validate(); err != nil {
		return false, missingFieldError(fieldImage + "." + fieldImagePath)
	}
	meta.Image = &image
	return true, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate accepts the date shapes found in post metadata. Values without a
// zone are interpreted as UTC.
func ParseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, invalidDateError(raw)
}

// Format renders metadata back into a YAML metadata block followed by body.
func Format(meta Metadata, body []byte) ([]byte, error) {
	root := Value{Kind: KindObject, Object: make(map[string]Value, len(meta.Extra)+5)}
	for key, value := range meta.Extra {
		root.Object[key] = value
	}
	if meta.Title != "" {
		root.Object[fieldTitle] = ScalarValue(meta.Title)
	}
	root.Object[fieldDate] = ScalarValue(meta.Date.Format(time.RFC3339Nano))
	if len(meta.Categories) > 0 {
		root.Object[fieldCategories] = ListValue(meta.Categories...)
	}
	if len(meta.Tags) > 0 {
		root.Object[fieldTags] = ListValue(meta.Tags...)
	}
	if meta.Image != nil {
		image := Value{Kind: KindObject, Object: map[string]Value{}}
		for key, value := range meta.Image.Extra {
			image.Object[key] = value
		}
		image.Object[fieldImagePath] = ScalarValue(meta.Image.Path)
		if meta.Image.Caption != "" {
			image.Object[fieldImageCaption] = ScalarValue(meta.Image.Caption)
		}
		root.Object[fieldImage] = image
	}

	encoded, err := yaml.Marshal(valueToNode(root))
	if err != nil {
		return nil, fmt.Errorf("posts: encode metadata: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(encoded) + len(body) + 8)
	buf.WriteString("---\n")
	buf.Write(encoded)
	buf.WriteString("---\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

func unmarshalYAMLNode(data []byte, v any) error {
	target, ok := v.(*Value)
	if !ok {
		return fmt.Errorf("posts: unexpected metadata target %T", v)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	value, err := valueFromNode(&node)
	if err != nil {
		return err
	}
	*target = value
	return nil
}

func unmarshalTOMLTree(data []byte, v any) error {
	target, ok := v.(*Value)
	if !ok {
		return fmt.Errorf("posts: unexpected metadata target %T", v)
	}
	tree := map[string]any{}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return err
	}
	*target = valueFromAny(tree)
	return nil
}
