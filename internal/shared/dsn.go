// filepath: internal/shared/dsn.go
package shared

import (
	"net/url"
	"strings"
)

// SQLiteDSN builds a file: URI for the sqlite driver. The path is escaped so
// names containing '?', '#' or '%' open the file they name. Relative paths
// stay relative.
func SQLiteDSN(path string, pragmas ...string) string {
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath()
	if len(pragmas) == 0 {
		return dsn
	}
	query := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		query = append(query, "_pragma="+p)
	}
	return dsn + "?" + strings.Join(query, "&")
}
