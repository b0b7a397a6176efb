package renderer

import (
	"github.com/unrolled/render"
)

// New returns a JSON-only renderer. Indented output is for development.
func New(indent bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    indent,
		UnEscapeHTML:  true,
		StreamingJSON: false,
	})
}
