// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/gosoup/internal/segment"
	"github.com/pdiddy/gosoup/pkg/types"
)

// Default base URLs.
const (
	GoByExampleURL = "https://gobyexample.com/"
	GoDocURL       = "https://go.dev/doc/"
	FyneURL        = "https://developer.fyne.io"
)

// DefaultSites returns the sites harvested when none are configured.
func DefaultSites() []types.SiteConfig {
	return []types.SiteConfig{
		{Name: "gobyexample", BaseURL: GoByExampleURL},
		{Name: "godoc", BaseURL: GoDocURL},
		{Name: "fyne", BaseURL: FyneURL},
	}
}

// NewSite builds the site named by cfg. An empty BaseURL selects the
// site's default.
func NewSite(cfg types.SiteConfig) (Site, error) {
	switch cfg.Name {
	case "gobyexample":
		return &GoByExample{BaseURL: orDefault(cfg.BaseURL, GoByExampleURL)}, nil
	case "godoc":
		return &GoDoc{BaseURL: orDefault(cfg.BaseURL, GoDocURL)}, nil
	case "fyne":
		return &Fyne{BaseURL: orDefault(cfg.BaseURL, FyneURL)}, nil
	default:
		return nil, fmt.Errorf("unknown site %q (want gobyexample, godoc or fyne)", cfg.Name)
	}
}

// SitesFromConfig builds every configured site, or the defaults when
// cfgs is empty.
func SitesFromConfig(cfgs []types.SiteConfig) ([]Site, error) {
	if len(cfgs) == 0 {
		cfgs = DefaultSites()
	}
	sites := make([]Site, 0, len(cfgs))
	for _, c := range cfgs {
		s, err := NewSite(c)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// hrefs returns the non-empty href of each anchor in anchors that keep
// accepts. A nil keep accepts every href.
func hrefs(anchors []*html.Node, keep func(string) bool) []string {
	var out []string
	for _, a := range anchors {
		if a.DataAtom != atom.A {
			continue
		}
		href, _ := Attr(a, "href")
		if href == "" || (keep != nil && !keep(href)) {
			continue
		}
		out = append(out, href)
	}
	return out
}

// GoByExample harvests gobyexample.com: one record per example page,
// titled by its first h2 and explained by its first paragraph.
type GoByExample struct {
	BaseURL string
}

func (s *GoByExample) Name() string { return "gobyexample" }

func (s *GoByExample) Harvest(ctx context.Context, f Fetcher, w io.Writer) (SiteResult, error) {
	return crawl(ctx, f, s.Name(), s.BaseURL, goByExampleLinks, goByExamplePage, w)
}

func goByExampleLinks(index *html.Node) []string {
	return hrefs(FindByClass(index, "a", "example-link"), nil)
}

func goByExamplePage(_ string, doc *html.Node) []types.Record {
	title := "Go Example"
	if h2 := Find(doc, "h2"); h2 != nil {
		title = Text(h2)
	}
	var body string
	if p := Find(doc, "p"); p != nil {
		body = Text(p)
	} else if pre := Find(doc, "pre"); pre != nil {
		body = Text(pre)
	}

	prompt, completion := segment.Normalize(title), segment.Normalize(body)
	if prompt == "" || completion == "" {
		return nil
	}
	return []types.Record{{Prompt: prompt, Completion: completion}}
}

// GoDoc harvests go.dev/doc: every substantial paragraph inside <main>
// becomes an "Explain:" record.
type GoDoc struct {
	BaseURL string
}

func (s *GoDoc) Name() string { return "godoc" }

func (s *GoDoc) Harvest(ctx context.Context, f Fetcher, w io.Writer) (SiteResult, error) {
	return crawl(ctx, f, s.Name(), s.BaseURL, goDocLinks, goDocPage, w)
}

// minParagraphWords is exclusive: a paragraph needs more words than this.
const minParagraphWords = 10

// explainPrefixRunes is how much of a paragraph the prompt quotes.
const explainPrefixRunes = 50

func goDocLinks(index *html.Node) []string {
	return hrefs(FindAll(index, "a"), func(href string) bool {
		return strings.Contains(href, "/doc/")
	})
}

func goDocPage(_ string, doc *html.Node) []types.Record {
	var records []types.Record
	for _, p := range Select(doc, "main p") {
		text := segment.Normalize(Text(p))
		if len(strings.Fields(text)) <= minParagraphWords {
			continue
		}
		records = append(records, types.Record{
			Prompt:     "Explain: " + prefixRunes(text, explainPrefixRunes) + "...",
			Completion: text,
		})
	}
	return records
}

func prefixRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Fyne harvests developer.fyne.io: each h2 names a topic and the
// paragraphs and images under it become records for that topic.
type Fyne struct {
	BaseURL string
}

func (s *Fyne) Name() string { return "fyne" }

func (s *Fyne) Harvest(ctx context.Context, f Fetcher, w io.Writer) (SiteResult, error) {
	return crawl(ctx, f, s.Name(), s.BaseURL, fyneLinks, fynePage, w)
}

func fyneLinks(index *html.Node) []string {
	return hrefs(FindAll(index, "a"), func(href string) bool {
		return strings.Contains(href, "/develop/") || strings.Contains(href, "/tutorial/")
	})
}

func fynePage(pageURL string, doc *html.Node) []types.Record {
	var records []types.Record
	var topic string
	for _, n := range FindAll(doc, "h2", "p", "img") {
		switch n.DataAtom {
		case atom.H2:
			topic = segment.Normalize(Text(n))
		case atom.P:
			text := segment.Normalize(Text(n))
			if topic != "" && text != "" {
				records = append(records, types.Record{Prompt: topic, Completion: text})
			}
		case atom.Img:
			src, _ := Attr(n, "src")
			if topic == "" || src == "" {
				continue
			}
			img, err := Resolve(pageURL, src)
			if err != nil {
				continue
			}
			records = append(records, types.Record{
				Prompt:     "Diagram for topic: " + topic,
				Completion: "Image URL: " + img,
			})
		}
	}
	return records
}
