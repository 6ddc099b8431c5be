package generator

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-pagination/internal/pagination"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

const (
	// ManifestFileName is the artifact describing every year chain of a build.
	ManifestFileName    = "pagination-manifest.json"
	manifestFileVersion = 1
)

// ChainSummary describes one anchor's year chain by output path.
type ChainSummary struct {
	Anchor      string        `json:"anchor"`
	Output      string        `json:"output"`
	Years       []int         `json:"years"`
	Pages       []PageSummary `json:"pages"`
	Overwritten []string      `json:"overwritten,omitempty"`
}

// PageSummary is one year page of a chain.
type PageSummary struct {
	Name   string `json:"name"`
	Output string `json:"output"`
	Year   int    `json:"year"`
	Posts  int    `json:"posts"`
	Prev   string `json:"prev,omitempty"`
	Next   string `json:"next,omitempty"`
}

type paginationManifest struct {
	Version     int            `json:"version"`
	BuildID     string         `json:"build_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Chains      []ChainSummary `json:"chains"`
}

func newPaginationManifest(buildID uuid.UUID, generatedAt time.Time, chains []ChainSummary) *paginationManifest {
	return &paginationManifest{
		Version:     manifestFileVersion,
		BuildID:     buildID.String(),
		GeneratedAt: generatedAt.UTC(),
		Chains:      chains,
	}
}

func (m *paginationManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	ordered := *m
	if ordered.Chains == nil {
		ordered.Chains = []ChainSummary{}
	}
	return json.MarshalIndent(ordered, "", "  ")
}

// Chains describes the planned year chains by output path.
func (p *Plan) Chains() []ChainSummary {
	if p == nil {
		return nil
	}
	return summariseChains(p.Pagination, p.Files, outputIndex(p.Files))
}

// summariseChains resolves prev/next names into output paths. Chains are
// ordered by anchor.
func summariseChains(result *pagination.Result, files interfaces.Files, outputs map[string]string) []ChainSummary {
	if result == nil {
		return nil
	}
	lookup := func(name string) string {
		if name == "" {
			return ""
		}
		if output, ok := outputs[name]; ok {
			return output
		}
		return outputPath(name)
	}

	summaries := make([]ChainSummary, 0, len(result.Chains))
	for _, chain := range result.Chains {
		summary := ChainSummary{
			Anchor:      chain.Anchor,
			Output:      lookup(chain.Anchor),
			Years:       append([]int(nil), chain.Years...),
			Pages:       make([]PageSummary, 0, len(chain.Pages)),
			Overwritten: append([]string(nil), chain.Overwritten...),
		}
		for i, name := range chain.Pages {
			page := PageSummary{
				Name:   name,
				Output: lookup(name),
				Year:   chain.Years[i],
			}
			if info, ok := files[name].Pagination(); ok {
				page.Posts = len(info.Posts)
			}
			if i > 0 {
				page.Prev = lookup(chain.Pages[i-1])
			}
			if i+1 < len(chain.Pages) {
				page.Next = lookup(chain.Pages[i+1])
			}
			summary.Pages = append(summary.Pages, page)
		}
		summaries = append(summaries, summary)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Anchor < summaries[j].Anchor
	})
	return summaries
}
