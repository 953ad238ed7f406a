package overlay

import (
	"strings"
	"text/template"
)

// Element ids inside the injected panel.
const (
	TextAreaID    = "vocabharvest-csv"
	CopyButtonID  = "vocabharvest-copy"
	CloseButtonID = "vocabharvest-close"
)

// DisplayText arrives escaped by EscapeDisplay and is inserted verbatim.
var panelTemplate = template.Must(template.New("panel").Parse(`
<div style="position:fixed;top:10%;left:50%;transform:translateX(-50%);z-index:99999;background:#fff;padding:1em 1em .75em;border:2px solid #444;box-shadow:0 12px 24px rgba(0,0,0,.2);border-radius:8px;max-width:90vw;font-family:sans-serif;">
  <h3 style="margin-top:0;font-size:16px;line-height:1.3;">{{.Title}}</h3>
  <textarea id="` + TextAreaID + `" style="width:400px;max-width:80vw;height:300px;font-size:12px;font-family:monospace;white-space:pre;line-height:1.4;">{{.DisplayText}}</textarea>
  <div style="margin-top:.5em;display:flex;gap:.5em;flex-wrap:wrap;">
    <button id="` + CopyButtonID + `" style="` + buttonStyle + `">{{.CopyLabel}}</button>
    <button id="` + CloseButtonID + `" style="` + buttonStyle + `">{{.CloseLabel}}</button>
  </div>
</div>`))

const buttonStyle = `cursor:pointer;padding:.4em .6em;font-size:12px;border-radius:4px;border:1px solid #222;background:#eee;font-family:sans-serif;`

// Markup renders the panel as an HTML fragment for injection into a page.
func Markup(v View) (string, error) {
	var sb strings.Builder
	if err := panelTemplate.Execute(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}
