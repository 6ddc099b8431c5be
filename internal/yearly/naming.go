package yearly

import (
	"path"
	"strconv"
	"strings"
)

// PageName derives the document name for a year page. The anchor extension is
// kept; the base is basePath when set, otherwise the anchor name without its
// extension: ("blog.md", "", 2015) -> "blog-2015.md",
// ("blog.md", "posts/page", 2015) -> "posts/page-2015.md".
func PageName(anchor, basePath string, year int) string {
	ext := path.Ext(anchor)
	base := strings.TrimSpace(basePath)
	if base == "" {
		base = strings.TrimSuffix(anchor, ext)
	}
	return base + "-" + strconv.Itoa(year) + ext
}
