// Package docs embeds the reference notes the server publishes as
// resources and searches through the search_docs tool.
package docs

import "embed"

//go:embed *.md
var files embed.FS
