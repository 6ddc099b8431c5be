package pagination

import "github.com/goliatone/go-pagination/internal/runtimeconfig"

var (
	ErrContentDirRequired            = runtimeconfig.ErrContentDirRequired
	ErrContentSortInvalid            = runtimeconfig.ErrContentSortInvalid
	ErrPaginationIterateeRequired    = runtimeconfig.ErrPaginationIterateeRequired
	ErrPaginationSummaryLimitInvalid = runtimeconfig.ErrPaginationSummaryLimitInvalid
	ErrPaginationLocationInvalid     = runtimeconfig.ErrPaginationLocationInvalid
	ErrPaginationPathInvalid         = runtimeconfig.ErrPaginationPathInvalid
	ErrGeneratorOutputDirRequired    = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorWorkersInvalid       = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrLoggingProviderUnknown        = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid           = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid          = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	ContentConfig        = runtimeconfig.ContentConfig
	PaginationConfig     = runtimeconfig.PaginationConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the defaults used by the paginate command.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
