// Package ui renders the server-side homepage.
package ui

import (
	"io"

	"portfolio/internal/models"
	"portfolio/internal/preferences"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

const (
	amaPanelID    = "ama"
	darkToggleID  = "dark-mode-toggle"
	amaToggleID   = "ama-toggle"
	linkRoutePath = "/go/"
)

// HomeView is everything the homepage needs to render.
type HomeView struct {
	Profile     models.Profile
	Preferences models.Preferences
}

// RenderHome writes the full homepage document to w.
func RenderHome(w io.Writer, v HomeView) error {
	return Home(v).Render(w)
}

// Home is the homepage document. The dark-mode class lands on <html>.
func Home(v HomeView) gomponents.Node {
	p := v.Profile
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			gomponents.If(v.Preferences.DarkMode.Enabled, html.Class(preferences.RootClass(v.Preferences.DarkMode))),
			head(p),
			html.Body(
				html.Main(
					html.Class("container"),
					profileCard(p),
					toggles(v.Preferences),
					amaPanel(p, v.Preferences.AMA),
				),
				footer(p.Links),
				html.Script(gomponents.Raw(clientScript)),
			),
		),
	)
}

func head(p models.Profile) gomponents.Node {
	return html.Head(
		html.Meta(html.Charset("utf-8")),
		html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
		html.TitleEl(gomponents.Text(p.Title)),
		html.Meta(html.Name("description"), html.Content(p.Description)),
		gomponents.If(p.SiteURL != "", html.Link(html.Rel("canonical"), html.Href(p.SiteURL))),
		metaProperty("og:type", "website"),
		metaProperty("og:title", p.Title),
		metaProperty("og:description", p.Description),
		gomponents.If(p.SiteURL != "", metaProperty("og:url", p.SiteURL)),
		gomponents.If(p.SocialImage != "", metaProperty("og:image", p.SocialImage)),
		html.Meta(html.Name("twitter:card"), html.Content("summary_large_image")),
		html.Meta(html.Name("twitter:title"), html.Content(p.Title)),
		html.Meta(html.Name("twitter:description"), html.Content(p.Description)),
		html.StyleEl(gomponents.Raw(baseCSS)),
	)
}

func metaProperty(property, content string) gomponents.Node {
	return html.Meta(gomponents.Attr("property", property), html.Content(content))
}

func profileCard(p models.Profile) gomponents.Node {
	return html.Section(
		html.Class("profile"),
		gomponents.If(p.Image != "", html.Img(html.Src(p.Image), html.Alt(p.Name), html.Class("avatar"))),
		html.H1(gomponents.Text(p.Name)),
		html.H2(gomponents.Text(p.Role)),
		gomponents.If(p.Summary != "", html.P(html.Class("summary"), gomponents.Text(p.Summary))),
	)
}

func toggles(prefs models.Preferences) gomponents.Node {
	return html.Div(
		html.Class("toggles"),
		html.Button(
			html.ID(darkToggleID),
			html.Type("button"),
			html.Aria("pressed", boolAttr(prefs.DarkMode.Enabled)),
			gomponents.Text("Dark mode"),
		),
		html.Button(
			html.ID(amaToggleID),
			html.Type("button"),
			html.Aria("expanded", boolAttr(prefs.AMA.IsOpened)),
			html.Aria("controls", amaPanelID),
			gomponents.Text("Ask me anything"),
		),
	)
}

func amaPanel(p models.Profile, ama models.AMAState) gomponents.Node {
	return html.Section(
		html.ID(amaPanelID),
		html.Class("ama"),
		gomponents.If(!ama.IsOpened, gomponents.Attr("hidden")),
		html.P(gomponents.Text(p.AMAText)),
	)
}

func footer(links []models.Link) gomponents.Node {
	return html.Footer(
		html.Nav(
			gomponents.Map(links, func(l models.Link) gomponents.Node {
				return html.A(
					html.Href(linkRoutePath+l.Label),
					html.Aria("label", l.Name),
					html.Data("label", l.Label),
					html.Rel("noopener"),
					gomponents.Text(l.Name),
				)
			}),
		),
	)
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

const baseCSS = `
:root{--bg:#fff;--fg:#1d1d1f;--muted:#6e6e73}
html.mode-dark{--bg:#111;--fg:#f5f5f7;--muted:#a1a1a6}
body{margin:0;background:var(--bg);color:var(--fg);font-family:system-ui,sans-serif}
.container{max-width:40rem;margin:0 auto;padding:3rem 1rem;text-align:center}
.avatar{width:8rem;height:8rem;border-radius:50%}
.summary,.ama{color:var(--muted)}
footer nav{display:flex;gap:1rem;justify-content:center;padding:2rem}
footer a{color:var(--fg)}
`

// clientScript wires the toggles to the preference endpoints, applies the
// HX-Trigger events they answer with, and keeps other tabs in sync over the
// preference stream.
const clientScript = `
(function(){
  var root=document.documentElement, ama=document.getElementById("ama");
  function apply(p){
    root.classList.toggle("mode-dark", p.darkMode.enabled);
    ama.hidden=!p.AMA.isOpened;
    document.getElementById("dark-mode-toggle").setAttribute("aria-pressed", String(p.darkMode.enabled));
    document.getElementById("ama-toggle").setAttribute("aria-expanded", String(p.AMA.isOpened));
  }
  function post(url){
    fetch(url,{method:"POST",credentials:"same-origin"}).then(function(r){
      var t=r.headers.get("HX-Trigger"); if(!r.ok||!t){return}
      var ev=JSON.parse(t);
      for(var k in ev){document.dispatchEvent(new CustomEvent(k,{detail:ev[k]}))}
    });
  }
  document.addEventListener("darkModeChanged",function(e){
    root.classList.toggle("mode-dark", e.detail.enabled);
    document.getElementById("dark-mode-toggle").setAttribute("aria-pressed", String(e.detail.enabled));
  });
  document.addEventListener("amaChanged",function(e){
    ama.hidden=!e.detail.isOpened;
    document.getElementById("ama-toggle").setAttribute("aria-expanded", String(e.detail.isOpened));
  });
  document.getElementById("dark-mode-toggle").addEventListener("click",function(){post("/prefs/dark-mode/toggle")});
  document.getElementById("ama-toggle").addEventListener("click",function(){post("/prefs/ama/toggle")});
  try{
    var ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"/ws?interval=2s");
    ws.onmessage=function(e){var m=JSON.parse(e.data); if(m.type==="preferences"){apply(m.data)}};
  }catch(_){}
})();
`
