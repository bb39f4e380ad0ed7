package html

import (
	"fmt"
	"html/template"
)

const baseTemplates = `
{{define "paragraph"}}<p{{with .Align}} style="text-align: {{.}}"{{end}}>{{.Children}}</p>{{end}}
{{define "orderedList"}}<ol{{if gt .Start 1}} start="{{.Start}}"{{end}}>{{.Children}}</ol>{{end}}
{{define "bulletList"}}<ul>{{.Children}}</ul>{{end}}
{{define "listItem"}}<li>{{.Children}}</li>{{end}}
{{define "table"}}<table class="quire-table"><tbody>{{.Children}}</tbody></table>{{end}}
{{define "tableRow"}}<tr>{{.Children}}</tr>{{end}}
{{define "tableCell"}}<td{{if gt .Colspan 1}} colspan="{{.Colspan}}"{{end}}{{if gt .Rowspan 1}} rowspan="{{.Rowspan}}"{{end}}>{{.Children}}</td>{{end}}
{{define "accordion"}}<details class="quire-accordion"><summary>{{.Title}}</summary><div class="quire-accordion-panel">{{.Children}}</div></details>{{end}}
{{define "image"}}<img class="quire-image" src="{{.Src}}" alt="{{.Alt}}"{{with .Title}} title="{{.}}"{{end}}{{with .Width}} width="{{.}}"{{end}}{{with .Height}} height="{{.}}"{{end}}>{{end}}
{{define "htmlCodeBlock"}}<div class="quire-html" contenteditable="false">{{.HTML}}</div>{{end}}

{{define "gallery"}}<div class="quire-gallery" data-gallery="{{.Path}}" data-columns="{{.Columns}}">
<div class="quire-gallery-grid" style="{{.GridStyle}}">
{{- range $i, $img := .Images}}
<figure class="quire-gallery-item" data-index="{{$i}}" style="{{$.ItemStyle}}"><img src="{{$img.Src}}" alt="{{$img.Alt}}"{{with $img.Title}} title="{{.}}"{{end}} loading="lazy"></figure>
{{- end}}
</div>
{{- with .Current}}
<dialog class="quire-lightbox" aria-label="Image gallery">
<button type="button" class="quire-lightbox-close" aria-label="Close">&times;</button>
<button type="button" class="quire-lightbox-prev" aria-label="Previous image">&lsaquo;</button>
<img class="quire-lightbox-image" src="{{.Src}}" alt="{{.Alt}}"{{with .Title}} title="{{.}}"{{end}}>
<button type="button" class="quire-lightbox-next" aria-label="Next image">&rsaquo;</button>
<div class="quire-lightbox-thumbs">
{{- range $i, $img := $.Images}}
<button type="button" class="quire-thumb" data-index="{{$i}}"{{if eq $i $.Index}} aria-current="true"{{end}}><img src="{{$img.Src}}" alt="{{$img.Alt}}"></button>
{{- end}}
</div>
</dialog>
{{- end}}
</div>{{end}}

{{define "tabs"}}<div class="quire-tabs">
<div class="quire-tablist" role="tablist">
{{- range $i, $t := .Titles}}
<button type="button" role="tab" id="quire-tab-{{$i}}" aria-controls="quire-panel-{{$i}}" aria-selected="{{if eq $i $.Selected}}true{{else}}false{{end}}">{{$t}}</button>
{{- end}}
</div>
{{- range $i, $p := .Panels}}
<div class="quire-tabpanel" role="tabpanel" id="quire-panel-{{$i}}" aria-labelledby="quire-tab-{{$i}}"{{if ne $i $.Selected}} hidden{{end}}>{{$p}}</div>
{{- end}}
</div>{{end}}

{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- if .Stylesheet}}
<link rel="stylesheet" href="{{.Stylesheet}}">
{{- else}}
<style>{{.DefaultCSS}}</style>
{{- end}}
</head>
<body>
{{- with .TOC}}
<nav class="quire-toc"><ul>
{{- range .}}
<li class="quire-toc-{{.Level}}"><a href="#{{.ID}}">{{.Text}}</a></li>
{{- end}}
</ul></nav>
{{- end}}
<main class="quire">
{{.Body}}
</main>
<script>{{.Script}}</script>
</body>
</html>
{{end}}
`

// defaultCSS lays out galleries, accordions and tabs when no stylesheet
// is given.
const defaultCSS = `
body { font-family: system-ui, sans-serif; line-height: 1.5; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
.quire-table { border-collapse: collapse; }
.quire-table td { border: 1px solid #ddd; padding: .25rem .5rem; }
.quire-html { margin-top: 2rem; }
.quire-gallery { position: relative; padding-top: 1rem; }
.quire-gallery-grid { display: grid; width: 100%; }
.quire-gallery-item { position: relative; margin: 0; cursor: pointer; }
.quire-gallery-item img { width: 100%; height: 100%; object-fit: cover; }
.quire-lightbox { max-width: 90vw; }
.quire-lightbox-image { max-width: 100%; max-height: 60vh; display: block; margin: 0 auto; object-fit: contain; }
.quire-lightbox-thumbs { display: flex; gap: .5rem; justify-content: center; overflow-x: auto; margin-top: 1.5rem; }
.quire-thumb img { width: 60px; height: 60px; object-fit: cover; opacity: .7; }
.quire-thumb[aria-current] img { opacity: 1; outline: 2px solid #3182ce; }
.quire-accordion summary { cursor: pointer; }
.quire-tabs { border: 1px solid #edf2f7; border-radius: .375rem; padding: 1rem 0; margin-top: 1rem; }
.quire-tabpanel { margin-bottom: 1.5rem; padding: 1rem; }
.quire-tabpanel a:hover { text-decoration: underline; }
`

// defaultJS drives the gallery lightboxes and tab strips of a standalone
// page: a grid image opens the lightbox at its index, prev and next wrap
// around, a thumbnail selects its image and a tab button shows its panel.
const defaultJS = `
document.querySelectorAll(".quire-gallery").forEach(function (g) {
  var dialog = g.querySelector(".quire-lightbox");
  if (!dialog) return;
  var items = g.querySelectorAll(".quire-gallery-item img");
  var thumbs = dialog.querySelectorAll(".quire-thumb");
  var main = dialog.querySelector(".quire-lightbox-image");
  var n = items.length, index = 0;
  function show(i) {
    if (i < 0 || i >= n) return;
    index = i;
    main.src = items[i].src;
    main.alt = items[i].alt;
    main.title = items[i].title;
    thumbs.forEach(function (t, j) {
      if (j === i) t.setAttribute("aria-current", "true"); else t.removeAttribute("aria-current");
    });
  }
  g.querySelectorAll(".quire-gallery-item").forEach(function (f) {
    f.addEventListener("click", function () { show(+f.dataset.index); dialog.showModal(); });
  });
  thumbs.forEach(function (t) {
    t.addEventListener("click", function () { show(+t.dataset.index); });
  });
  dialog.querySelector(".quire-lightbox-prev").addEventListener("click", function () { show((index - 1 + n) % n); });
  dialog.querySelector(".quire-lightbox-next").addEventListener("click", function () { show((index + 1) % n); });
  dialog.querySelector(".quire-lightbox-close").addEventListener("click", function () { dialog.close(); });
  dialog.addEventListener("keydown", function (e) {
    if (e.key === "ArrowLeft") show((index - 1 + n) % n);
    if (e.key === "ArrowRight") show((index + 1) % n);
  });
});
document.querySelectorAll(".quire-tabs").forEach(function (tabs) {
  var buttons = tabs.querySelectorAll("[role=tab]");
  buttons.forEach(function (b) {
    b.addEventListener("click", function () {
      buttons.forEach(function (o) {
        var on = o === b;
        o.setAttribute("aria-selected", on ? "true" : "false");
        document.getElementById(o.getAttribute("aria-controls")).hidden = !on;
      });
    });
  });
});
`

var templates = mustTemplates()

func mustTemplates() *template.Template {
	t := template.Must(template.New("quire").Parse(baseTemplates))
	for level := 1; level <= 6; level++ {
		def := fmt.Sprintf(`{{define "h%d"}}<h%d{{with .ID}} id="{{.}}"{{end}}{{with .Align}} style="text-align: {{.}}"{{end}}>{{.Children}}</h%d>{{end}}`, level, level, level)
		template.Must(t.Parse(def))
	}
	return t
}
