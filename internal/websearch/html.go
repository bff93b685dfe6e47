package websearch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Result-page markup differs across SearXNG versions; both tiers try the
// known shapes from most to least specific and never let one bad node stop
// the rest.

// parseResultHTML is the DOM tier. It walks result nodes with selector
// fallbacks and drops any node without an extractable title.
func parseResultHTML(body string, count int) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	nodes := doc.Find("article.result")
	if nodes.Length() == 0 {
		nodes = doc.Find("div.result")
	}
	if nodes.Length() == 0 {
		nodes = doc.Find(".result")
	}

	results := make([]Result, 0, count)
	nodes.EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if len(results) >= count {
			return false
		}
		title, href := extractNodeTitle(node)
		if title == "" {
			return true
		}
		results = append(results, newResult(title, href, extractNodeContent(node)))
		return true
	})
	return results, nil
}

// extractNodeTitle tries h3, h2, then a bare anchor. When the title element
// is not itself a link, a nested anchor supplies the URL.
func extractNodeTitle(node *goquery.Selection) (string, string) {
	elem := node.Find("h3").First()
	if elem.Length() == 0 {
		elem = node.Find("h2").First()
	}
	if elem.Length() == 0 {
		elem = node.Find("a").First()
	}
	if elem.Length() == 0 {
		return "", ""
	}

	link := elem
	if !elem.Is("a") {
		link = elem.Find("a").First()
	}
	if link.Length() == 0 {
		return strings.TrimSpace(elem.Text()), ""
	}
	href, _ := link.Attr("href")
	return strings.TrimSpace(link.Text()), strings.TrimSpace(href)
}

func extractNodeContent(node *goquery.Selection) string {
	elem := node.Find("p.content").First()
	if elem.Length() == 0 {
		elem = node.Find("p").First()
	}
	if elem.Length() == 0 {
		elem = node.Find("span").First()
	}
	if elem.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(elem.Text())
}

var (
	resultBlockRe = regexp.MustCompile(`(?is)<(?:article|div)[^>]*class="[^"]*result[^"]*"[^>]*>(.*?)</(?:article|div)>`)

	// Title candidates, most specific first: a heading-wrapped anchor, an
	// anchor classed as a title, any anchor.
	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<h[23][^>]*>.*?<a[^>]*href="([^"]*)"[^>]*>([^<]*)</a>.*?</h[23]>`),
		regexp.MustCompile(`(?is)<a[^>]*href="([^"]*)"[^>]*class="[^"]*title[^"]*"[^>]*>([^<]*)</a>`),
		regexp.MustCompile(`(?is)<a[^>]*href="([^"]*)"[^>]*>([^<]*)</a>`),
	}

	contentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<p[^>]*class="[^"]*content[^"]*"[^>]*>([^<]*)</p>`),
		regexp.MustCompile(`(?is)<p[^>]*>([^<]*)</p>`),
		regexp.MustCompile(`(?is)<span[^>]*>([^<]*)</span>`),
	}

	tagRe = regexp.MustCompile(`<[^>]*>`)
)

// parseResultHTMLRegex is the last-resort tier: tolerant patterns over the
// raw page with no DOM construction. Lower fidelity than the DOM tier is
// accepted; a block that matches no title pattern is skipped.
func parseResultHTMLRegex(body string, count int) []Result {
	blocks := resultBlockRe.FindAllStringSubmatch(body, -1)

	results := make([]Result, 0, count)
	for _, block := range blocks {
		if len(results) >= count {
			break
		}
		inner := block[1]

		var title, href string
		for _, re := range titlePatterns {
			if m := re.FindStringSubmatch(inner); m != nil {
				href = strings.TrimSpace(m[1])
				title = strings.TrimSpace(tagRe.ReplaceAllString(m[2], ""))
				break
			}
		}
		if title == "" {
			continue
		}

		var content string
		for _, re := range contentPatterns {
			if m := re.FindStringSubmatch(inner); m != nil {
				content = strings.TrimSpace(tagRe.ReplaceAllString(m[1], ""))
				break
			}
		}

		results = append(results, newResult(title, href, content))
	}
	return results
}
