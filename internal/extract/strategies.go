package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// rawProduct holds unnormalized field values pulled out of a page
type rawProduct struct {
	Title       string
	Description string
	Price       string
	Images      []string
	Features    []string
}

// Strategy describes how to pull product fields out of one family of
// storefronts. Selector lists are ordered: first non-empty result wins.
type Strategy struct {
	Name        string
	Match       func(host, path string) bool
	Title       []string
	Description []string
	Price       []string
	Images      string
	// ImageFilter decides whether an img src belongs to the product and may
	// rewrite it (e.g. strip size suffixes). Nil keeps every absolute URL.
	ImageFilter func(src string) (string, bool)
	Features    []string
	// MinFeatureLen drops short feature snippets (Amazon bullet noise)
	MinFeatureLen int
}

var shopifySizeSuffix = regexp.MustCompile(`_\d+x\d+(\.[^.]*)$`)

// strategies is the ordered dispatch table: first matching predicate wins.
// The catch-all generic strategy must stay last.
var strategies = []Strategy{
	{
		Name: "shopify",
		Match: func(host, path string) bool {
			return strings.Contains(host, "shopify") || strings.Contains(host, ".myshopify.com")
		},
		Title:       []string{"h1", `[data-testid="product-title"]`, ".product-title", ".product__title"},
		Description: []string{".product-description", ".product__description", `[data-testid="product-description"]`, ".rte"},
		Price:       []string{".price", ".product-price", `[data-testid="price"]`, ".money"},
		Images:      "img",
		ImageFilter: func(src string) (string, bool) {
			if !strings.Contains(src, "product") && !strings.Contains(src, "cdn.shopify") {
				return "", false
			}
			// drop query params and size suffixes like _300x300
			src = strings.SplitN(src, "?", 2)[0]
			src = shopifySizeSuffix.ReplaceAllString(src, "$1")
			return src, true
		},
		Features: []string{
			".product-features li", ".product-benefits li",
			".product-highlights li", ".features li", ".benefits li",
		},
	},
	{
		Name: "amazon",
		Match: func(host, path string) bool {
			return strings.Contains(host, "amazon")
		},
		Title:         []string{"#productTitle"},
		Description:   []string{"#feature-bullets ul", "#productDescription"},
		Price:         []string{".a-price-whole", ".a-offscreen"},
		Images:        "#landingImage, .a-dynamic-image",
		Features:      []string{"#feature-bullets li span"},
		MinFeatureLen: 10,
	},
	{
		Name:        "generic",
		Match:       func(host, path string) bool { return true },
		Title:       []string{"h1", ".product-title", ".title"},
		Description: []string{".description", ".product-description", `meta[name="description"]`},
		Price:       []string{".price", ".cost", ".amount"},
		Images:      "img",
	},
}

// matchStrategy returns the first strategy whose predicate accepts the URL
func matchStrategy(host, path string) Strategy {
	for _, s := range strategies {
		if s.Match(host, path) {
			return s
		}
	}
	return strategies[len(strategies)-1]
}

// evaluate applies a strategy's field rules to a parsed document
func (s Strategy) evaluate(doc *goquery.Document) rawProduct {
	raw := rawProduct{
		Title:       firstText(doc, s.Title),
		Description: firstText(doc, s.Description),
		Price:       firstText(doc, s.Price),
	}

	doc.Find(s.Images).Each(func(_ int, el *goquery.Selection) {
		if len(raw.Images) >= maxImages {
			return
		}
		src := el.AttrOr("src", el.AttrOr("data-src", ""))
		if src == "" {
			return
		}
		if s.ImageFilter != nil {
			var ok bool
			if src, ok = s.ImageFilter(src); !ok {
				return
			}
		}
		raw.Images = append(raw.Images, src)
	})

	for _, sel := range s.Features {
		doc.Find(sel).Each(func(_ int, el *goquery.Selection) {
			text := strings.TrimSpace(el.Text())
			if text == "" || len(text) <= s.MinFeatureLen {
				return
			}
			for _, have := range raw.Features {
				if have == text {
					return
				}
			}
			if len(raw.Features) < 5 {
				raw.Features = append(raw.Features, text)
			}
		})
	}

	return raw
}

// firstText returns the first non-empty trimmed match across the selector
// list. Meta selectors read the content attribute instead of element text.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		var text string
		if strings.HasPrefix(sel, "meta") {
			text = el.AttrOr("content", "")
		} else {
			text = el.Text()
		}
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return ""
}
