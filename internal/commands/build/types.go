package buildcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-pagination/internal/generator"
	"github.com/goliatone/go-pagination/internal/pagination"
	"github.com/goliatone/go-pagination/internal/runtimeconfig"
)

const (
	buildSiteMessageType   = "pagination.site.build"
	inspectSiteMessageType = "pagination.site.inspect"
)

// ResultCallback receives the outcome of a build. It is invoked exactly once
// per executed command, including failed builds.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a build command.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Config   runtimeconfig.Config
	Err      error
	Metadata map[string]any
}

// BuildSiteCommand runs a full build. Empty fields keep the handler's base
// configuration.
type BuildSiteCommand struct {
	ContentDir     string         `json:"content_dir,omitempty"`
	OutputDir      string         `json:"output_dir,omitempty"`
	Path           string         `json:"path,omitempty"`
	Iteratee       string         `json:"iteratee,omitempty"`
	SummaryLimit   int            `json:"summary_limit,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate checks the overrides carried by the command.
func (m BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ContentDir, validation.By(notBlank("pagination.build.content_dir_invalid"))),
		validation.Field(&m.OutputDir, validation.By(notBlank("pagination.build.output_dir_invalid"))),
		validation.Field(&m.Path, validation.By(relativePath("pagination.build.path_invalid"))),
		validation.Field(&m.Iteratee, validation.By(knownIteratee("pagination.build.iteratee_unknown"))),
		validation.Field(&m.SummaryLimit, validation.Min(0)),
	)
}

// Apply layers the command overrides on top of cfg.
func (m BuildSiteCommand) Apply(cfg runtimeconfig.Config) runtimeconfig.Config {
	cfg = applyShared(cfg, m.ContentDir, m.Path, m.Iteratee, m.SummaryLimit)
	if dir := strings.TrimSpace(m.OutputDir); dir != "" {
		cfg.Generator.OutputDir = dir
	}
	return cfg
}

// InspectCallback receives the in-memory pagination of an inspect command.
type InspectCallback func(InspectEnvelope)

// InspectEnvelope describes the chains found without rendering or writing.
type InspectEnvelope struct {
	Plan   *generator.Plan
	Chains []generator.ChainSummary
	Err    error
}

// InspectSiteCommand loads content and paginates it in memory.
type InspectSiteCommand struct {
	ContentDir     string          `json:"content_dir,omitempty"`
	Path           string          `json:"path,omitempty"`
	Iteratee       string          `json:"iteratee,omitempty"`
	SummaryLimit   int             `json:"summary_limit,omitempty"`
	ResultCallback InspectCallback `json:"-"`
}

// Type implements command.Message.
func (InspectSiteCommand) Type() string { return inspectSiteMessageType }

// Validate checks the overrides carried by the command.
func (m InspectSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ContentDir, validation.By(notBlank("pagination.inspect.content_dir_invalid"))),
		validation.Field(&m.Path, validation.By(relativePath("pagination.inspect.path_invalid"))),
		validation.Field(&m.Iteratee, validation.By(knownIteratee("pagination.inspect.iteratee_unknown"))),
		validation.Field(&m.SummaryLimit, validation.Min(0)),
	)
}

// Apply layers the command overrides on top of cfg.
func (m InspectSiteCommand) Apply(cfg runtimeconfig.Config) runtimeconfig.Config {
	return applyShared(cfg, m.ContentDir, m.Path, m.Iteratee, m.SummaryLimit)
}

func applyShared(cfg runtimeconfig.Config, contentDir, path, iteratee string, summaryLimit int) runtimeconfig.Config {
	if dir := strings.TrimSpace(contentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if path = strings.TrimSpace(path); path != "" {
		cfg.Pagination.Path = path
	}
	if iteratee = strings.TrimSpace(iteratee); iteratee != "" {
		cfg.Pagination.Iteratee = iteratee
	}
	if summaryLimit > 0 {
		cfg.Pagination.SummaryLimit = summaryLimit
	}
	return cfg
}

func notBlank(code string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != "" && strings.TrimSpace(s) == "" {
			return validation.NewError(code, "must not be blank")
		}
		return nil
	}
}

func relativePath(code string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "/") || strings.Contains(s, "..") {
			return validation.NewError(code, "must be a relative path inside the output")
		}
		return nil
	}
}

func knownIteratee(code string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := pagination.LookupIteratee(s, pagination.IterateeOptions{}); err != nil {
			return validation.NewError(code, "must be one of "+strings.Join(pagination.IterateeNames(), ", "))
		}
		return nil
	}
}
