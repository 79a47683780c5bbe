package folio

import "github.com/goliatone/go-folio/internal/runtimeconfig"

var (
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrPostsPatternInvalid     = runtimeconfig.ErrPostsPatternInvalid
	ErrWorkersInvalid          = runtimeconfig.ErrWorkersInvalid
	ErrSectionLevelInvalid     = runtimeconfig.ErrSectionLevelInvalid
	ErrFeedLimitInvalid        = runtimeconfig.ErrFeedLimitInvalid
	ErrBaseURLInvalid          = runtimeconfig.ErrBaseURLInvalid
	ErrOutputDirRequired       = runtimeconfig.ErrOutputDirRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigFormatUnsupported = runtimeconfig.ErrConfigFormatUnsupported
)

type (
	Config         = runtimeconfig.Config
	SiteConfig     = runtimeconfig.SiteConfig
	ContentConfig  = runtimeconfig.ContentConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	ResumeConfig   = runtimeconfig.ResumeConfig
	FeedsConfig    = runtimeconfig.FeedsConfig
	BuildConfig    = runtimeconfig.BuildConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML or TOML config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
