// Package component holds the server-rendered page shell. The views
// themselves are driven client-side from the JSON endpoints; the shell
// only provides the document, navigation targets and script includes.
package component

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// FullPage renders the single-page shell for the application.
func FullPage(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="nl">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/styles.css">
<script src="/static/vendor/htmx.min.js" defer></script>
<script src="/static/vendor/alpine.min.js" defer></script>
<script src="/static/app.js" type="module" defer></script>
</head>
<body>
<header class="topbar">
<h1>%s</h1>
<nav id="main-nav">
<button class="nav-button active" data-target="view-dashboard">Dashboard</button>
<button class="nav-button" data-target="view-timesheet">Uren</button>
<button class="nav-button" data-target="view-planning">Planning</button>
<button class="nav-button" data-target="view-invoices">Facturen</button>
<button class="nav-button" data-target="view-clients">Klanten</button>
<button class="nav-button" data-target="view-tasks">Taken</button>
</nav>
</header>
<main>
<section id="view-dashboard" class="view active"></section>
<section id="view-timesheet" class="view"></section>
<section id="view-planning" class="view"></section>
<section id="view-invoices" class="view"></section>
<section id="view-clients" class="view"></section>
<section id="view-tasks" class="view"></section>
</main>
<div id="toast-container"></div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title))
		return err
	})
}
