package interfaces

// MarkdownRenderer converts post and resume Markdown into HTML.
type MarkdownRenderer interface {
	// Render uses the renderer's default options.
	Render(markdown []byte) ([]byte, error)
	RenderWithOptions(markdown []byte, opts RenderOptions) ([]byte, error)
}

// RenderOptions toggles goldmark extensions and HTML output behaviour. Field
// names match the markdown section of the config file.
type RenderOptions struct {
	Extensions []string `yaml:"extensions" json:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps" json:"hard_wraps"`
	// SafeMode drops raw HTML embedded in the Markdown source.
	SafeMode bool `yaml:"safe_mode" json:"safe_mode"`
}
