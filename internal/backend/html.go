package backend

import (
	"fmt"
	"html"
	"strings"

	"github.com/espressolang/espresso/internal/ast"
	"github.com/espressolang/espresso/internal/jsbe"
)

// HTMLBackend embeds the generated script in a page that provides the
// mount element.
type HTMLBackend struct{}

// Name returns the backend name.
func (b *HTMLBackend) Name() string {
	return "html"
}

// Extension returns ".html".
func (b *HTMLBackend) Extension() string {
	return ".html"
}

// Generate produces a standalone HTML page running the module.
func (b *HTMLBackend) Generate(mod *ast.Module, opts Options) string {
	appRoot := opts.AppRoot
	if appRoot == "" {
		appRoot = jsbe.DefaultAppRoot
	}
	title := opts.Title
	if title == "" {
		title = "EspressoScript"
	}

	script := jsbe.Generate(mod, jsbe.Options{Entry: opts.Entry, AppRoot: appRoot})
	// keep the script from closing its own tag
	script = strings.ReplaceAll(script, "</script", `<\/script`)

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html>\n")
	sb.WriteString("<head>\n")
	sb.WriteString("  <meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("  <title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")
	sb.WriteString(fmt.Sprintf("  <div id=\"%s\"></div>\n", html.EscapeString(appRoot)))
	sb.WriteString("  <script>\n")
	sb.WriteString(script)
	sb.WriteString("  </script>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")
	return sb.String()
}
