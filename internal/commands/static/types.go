package staticcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-folio/internal/site"
)

const (
	buildSiteMessageType = "folio.site.build"
	cleanSiteMessageType = "folio.site.clean"
)

// ResultCallback receives the outcome of a build. It is optional and runs
// synchronously inside the handler.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope carries a build result and metadata about the run.
type ResultEnvelope struct {
	Result   *site.BuildResult
	Removed  []string
	Metadata map[string]any
}

// BuildSiteCommand builds the site from ContentDir into OutputDir. Empty
// directories fall back to the configured ones. With DryRun the site is
// built but nothing is written.
type BuildSiteCommand struct {
	ContentDir     string         `json:"content_dir,omitempty"`
	OutputDir      string         `json:"output_dir,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects blank or identical directories.
func (m BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ContentDir, validation.By(notBlankWhenSet("folio.site.build.content_dir_blank"))),
		validation.Field(&m.OutputDir,
			validation.By(notBlankWhenSet("folio.site.build.output_dir_blank")),
			validation.By(func(value any) error {
				out := strings.TrimSpace(value.(string))
				if out != "" && out == strings.TrimSpace(m.ContentDir) {
					return validation.NewError("folio.site.build.output_is_content", "output directory must differ from the content directory")
				}
				return nil
			}),
		),
	)
}

// CleanSiteCommand removes generated artifacts from OutputDir.
type CleanSiteCommand struct {
	OutputDir      string         `json:"output_dir,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

func (m CleanSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.OutputDir, validation.By(notBlankWhenSet("folio.site.clean.output_dir_blank"))),
	)
}

// notBlankWhenSet accepts the empty string but rejects whitespace only
// values.
func notBlankWhenSet(code string) validation.RuleFunc {
	return func(value any) error {
		raw, _ := value.(string)
		if raw != "" && strings.TrimSpace(raw) == "" {
			return validation.NewError(code, "must not be blank")
		}
		return nil
	}
}
