package handlers

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

const (
	DOCS_URL = "/api/docs"
	SPEC_URL = "/static/masterblog.json"
)

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.AppName}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui" data-spec-url="{{.SpecURL}}"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    var root = document.getElementById("swagger-ui");
    window.ui = SwaggerUIBundle({ url: root.dataset.specUrl, dom_id: "#swagger-ui" });
  </script>
</body>
</html>
`))

func (h *HTTPHandler) HandleSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(h.Docs)
}

func (h *HTTPHandler) HandleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := docsPage.Execute(w, struct {
		AppName string
		SpecURL string
	}{"Masterblog API", SPEC_URL})
	if err != nil {
		h.Logger.Error("Failed to render docs page", zap.Error(err))
	}
}
