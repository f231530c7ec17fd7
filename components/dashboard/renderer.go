package dashboard

import "io"

// Renderer is the template engine contract the controller renders pages with.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
