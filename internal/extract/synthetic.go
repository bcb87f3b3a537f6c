package extract

import (
	"net/url"
	"regexp"
	"strings"

	"adpipe/internal/types"
)

var stopSegment = regexp.MustCompile(`(?i)^(products?|items?|p|dp|B[0-9A-Z]{9})$`)

var syntheticImages = []string{
	"https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=800&h=800&fit=crop",
	"https://images.unsplash.com/photo-1526170375885-4d8ecf77b99f?w=800&h=800&fit=crop",
	"https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=800&h=800&fit=crop",
}

// synthesize builds a plausible demo product deterministically from the URL
// alone. Used whenever real extraction fails; the record is flagged so the
// pipeline can tell callers the data is fabricated.
func synthesize(rawURL string) *types.ProductRecord {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return staticFallback(rawURL)
	}

	host := strings.ToLower(u.Hostname())
	path := u.Path
	urlLower := strings.ToLower(rawURL)

	rec := &types.ProductRecord{
		Title:       "Premium Product",
		Description: "High-quality product with excellent features.",
		Price:       "$99",
		Images:      append([]string(nil), syntheticImages...),
		Features:    []string{"Premium quality", "Great value", "Customer favorite"},
		SourceURL:   rawURL,
		IsSynthetic: true,
	}

	switch {
	case strings.Contains(host, "amazon"):
		if t := amazonTitleFromPath(path); t != "" {
			rec.Title = t
		}
		switch {
		case strings.Contains(urlLower, "refrigerator") || strings.Contains(urlLower, "fridge"):
			rec.Title = "LG Inverter Refrigerator"
			rec.Description = "Energy-efficient double door refrigerator with advanced inverter technology. Features frost-free operation, optimal cooling, and spacious storage compartments."
			rec.Price = "$899"
			rec.Features = []string{"Inverter technology", "Frost-free operation", "Energy efficient", "Large capacity"}
		case strings.Contains(urlLower, "phone") || strings.Contains(urlLower, "mobile"):
			rec.Title = "Premium Smartphone"
			rec.Description = "Latest smartphone with advanced features, high-quality camera, and long-lasting battery life."
			rec.Price = "$699"
			rec.Features = []string{"High-resolution camera", "Fast processor", "Long battery life"}
		case strings.Contains(urlLower, "laptop") || strings.Contains(urlLower, "computer"):
			rec.Title = "Professional Laptop"
			rec.Description = "High-performance laptop designed for professionals and power users."
			rec.Price = "$1299"
			rec.Features = []string{"Fast processor", "Ample storage", "Professional grade"}
		}

	case strings.Contains(host, "gymshark"):
		if strings.Contains(path, "leggings") {
			rec.Title = "Vital Seamless Leggings"
			rec.Description = "Premium seamless leggings designed for ultimate comfort and performance during workouts."
			rec.Price = "$65"
			rec.Features = []string{"Seamless design", "Moisture-wicking", "Squat-proof", "Comfortable fit"}
		} else {
			rec.Title = "Premium Activewear"
			rec.Description = "High-performance athletic wear designed for serious athletes and fitness enthusiasts."
			rec.Price = "$55"
			rec.Features = []string{"Performance fabric", "Athletic fit", "Durable construction"}
		}

	case strings.Contains(host, "allbirds"):
		rec.Title = "Tree Runner Shoes"
		rec.Description = "Sustainable and comfortable shoes made from natural materials. Perfect for everyday wear with eco-friendly design."
		rec.Price = "$98"
		rec.Features = []string{"Sustainable materials", "All-day comfort", "Machine washable", "Eco-friendly"}

	case strings.Contains(host, "coffee") || strings.Contains(urlLower, "coffee"):
		rec.Title = "Premium Coffee Blend"
		rec.Description = "Expertly roasted coffee beans sourced from the finest farms. Rich, bold flavor that awakens your senses."
		rec.Price = "$24"
		rec.Features = []string{"Single origin", "Expert roasted", "Rich flavor", "Premium quality"}

	default:
		if t := genericTitleFromPath(path); t != "" {
			rec.Title = t
		}
	}

	return rec
}

// amazonTitleFromPath finds the slug segment that looks like a product name
// (long, not a dp/ASIN marker) and title-cases up to four words of it.
func amazonTitleFromPath(path string) string {
	for _, part := range strings.Split(path, "/") {
		if len(part) <= 10 || strings.HasPrefix(part, "dp") || strings.HasPrefix(part, "B0") {
			continue
		}
		return titleCaseSlug(part, 4)
	}
	return ""
}

// genericTitleFromPath picks the best path segment: first one that is not a
// stop segment like "products" or an ASIN, else the last usable one.
func genericTitleFromPath(path string) string {
	var parts []string
	for _, part := range strings.Split(path, "/") {
		if len(part) > 3 {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	best := parts[len(parts)-1]
	for _, part := range parts {
		if !stopSegment.MatchString(part) {
			best = part
			break
		}
	}
	return titleCaseSlug(best, 3)
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

func titleCaseSlug(slug string, maxWords int) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	s = nonAlnum.ReplaceAllString(s, "")
	var words []string
	for _, w := range strings.Fields(s) {
		if len(w) <= 2 {
			continue
		}
		words = append(words, strings.ToUpper(w[:1])+w[1:])
		if len(words) == maxWords {
			break
		}
	}
	return strings.Join(words, " ")
}

// staticFallback is the last-resort record when even synthesis has nothing
// to work with.
func staticFallback(rawURL string) *types.ProductRecord {
	return &types.ProductRecord{
		Title:       "Premium Product",
		Description: "A high-quality product designed to meet your needs with exceptional craftsmanship and attention to detail.",
		Price:       "$79",
		Images: []string{
			"https://via.placeholder.com/800x800/6366f1/ffffff?text=Premium+Product",
			"https://via.placeholder.com/800x800/8b5cf6/ffffff?text=Quality+Design",
		},
		Features:    []string{"Premium quality", "Expert craftsmanship", "Customer satisfaction"},
		SourceURL:   rawURL,
		IsSynthetic: true,
	}
}
