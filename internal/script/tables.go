package script

// categoryEntry pairs a category with its detection keywords. The table is
// ordered: the first category with any keyword match wins.
type categoryEntry struct {
	Name     string
	Keywords []string
}

var categoryTable = []categoryEntry{
	{"fashion", []string{"clothing", "shirt", "dress", "shoes", "fashion", "wear", "style", "outfit"}},
	{"tech", []string{"phone", "laptop", "computer", "device", "gadget", "electronic", "smart", "digital"}},
	{"beauty", []string{"beauty", "skincare", "makeup", "cosmetic", "cream", "serum", "face", "skin"}},
	{"fitness", []string{"fitness", "workout", "gym", "exercise", "health", "protein", "muscle", "training"}},
	{"home", []string{"home", "kitchen", "furniture", "decor", "house", "room", "living", "dining"}},
	{"food", []string{"food", "snack", "drink", "coffee", "tea", "organic", "nutrition", "flavor"}},
	{"book", []string{"book", "read", "author", "story", "guide", "learn", "education", "knowledge"}},
	{"game", []string{"game", "play", "gaming", "console", "entertainment", "fun", "board"}},
}

type benefitEntry struct {
	Benefit  string
	Keywords []string
}

var benefitTable = []benefitEntry{
	{"save time", []string{"quick", "fast", "instant", "immediate", "efficient", "time-saving"}},
	{"save money", []string{"affordable", "cheap", "budget", "value", "deal", "discount"}},
	{"premium quality", []string{"premium", "quality", "high-end", "professional", "luxury", "best"}},
	{"easy to use", []string{"easy", "simple", "user-friendly", "intuitive", "effortless"}},
	{"durable", []string{"durable", "lasting", "strong", "robust", "reliable", "long-lasting"}},
	{"innovative", []string{"innovative", "new", "advanced", "cutting-edge", "revolutionary"}},
	{"comfortable", []string{"comfortable", "soft", "cozy", "ergonomic", "smooth"}},
	{"versatile", []string{"versatile", "flexible", "multi-purpose", "adaptable", "various"}},
}

// urgencyFactors scores both categories and price tiers; keys missing from
// the table score 1. Kept literal: changing these changes classification.
var urgencyFactors = map[string]int{
	"fashion":    2,
	"tech":       1,
	"beauty":     2,
	"fitness":    1,
	"budget":     2,
	"affordable": 1,
	"premium":    0,
	"luxury":     0,
}

// hookPools are keyed by urgency level; %s is the product title
var hookPools = map[string][]string{
	"high": {
		"🔥 Discover %s!",
		"⚡ Introducing %s",
		"🚨 Don't Miss %s",
		"✨ Finally! %s",
		"🎯 The %s You Need",
	},
	"medium": {
		"✨ Meet %s",
		"🌟 Presenting %s",
		"💎 Experience %s",
		"🎉 Discover %s",
		"🔥 Try %s",
	},
	"low": {
		"Introducing %s",
		"Meet the new %s",
		"Discover %s",
		"Experience %s",
		"The perfect %s",
	},
}

// problemSolutionTemplates interpolate the lead benefit per category
var problemSolutionTemplates = map[string]string{
	"fashion": "Transform your style with %s. Look amazing every day!",
	"tech":    "Upgrade your digital life with %s. Technology that works for you.",
	"beauty":  "Reveal your natural beauty with %s. Feel confident and radiant.",
	"fitness": "Achieve your fitness goals with %s. Get stronger, feel better.",
	"home":    "Transform your space with %s. Create the home you love.",
	"food":    "Taste the difference with %s. Pure quality you can trust.",
	"general": "Experience the power of %s. Life made better.",
}

// showcaseTemplates interpolate title then benefit text, keyed by price tier
var showcaseTemplates = map[string]string{
	"luxury":     "%s delivers %s. Uncompromising excellence.",
	"premium":    "%s combines %s. Premium quality, exceptional value.",
	"affordable": "%s offers %s. Great quality, amazing price.",
	"budget":     "%s provides %s. Quality that doesn't break the bank.",
}

// ctaTemplate carries both variants: with a known price and without
type ctaTemplate struct {
	WithPrice    string // %s is the price string, when present
	WithoutPrice string
}

var ctaPools = map[string][]ctaTemplate{
	"high": {
		{"Get Yours Now! 💳", "Get Yours Now! 🛒"},
		{"Order Today! %s", "Order Today! 📱"},
		{"Don't Wait - Buy Now! ⚡", "Don't Wait - Buy Now! 🔥"},
		{"Limited Time! %s 🚨", "Limited Time! Order Now 🚨"},
	},
	"medium": {
		{"Shop Now! %s", "Shop Now! 🛍️"},
		{"Get Yours Today 💰", "Get Yours Today 📦"},
		{"Order Now %s", "Order Now ✨"},
		{"Buy Today! 💳", "Buy Today! 🎯"},
	},
	"low": {
		{"Learn More %s", "Learn More 📖"},
		{"Shop Collection 🛍️", "Shop Collection ✨"},
		{"Discover More %s", "Discover More 🔍"},
		{"Explore Now 💎", "Explore Now 🌟"},
	},
}

var voiceoverTones = map[string]string{
	"high":   "Energetic and urgent tone with clear pronunciation. Build excitement and urgency.",
	"medium": "Confident and persuasive tone. Emphasize benefits and value proposition.",
	"low":    "Professional and trustworthy tone. Focus on quality and reliability.",
}

var voiceoverTypeNotes = map[string]string{
	"fashion": "Stylish and trendy delivery. Appeal to fashion-conscious audience.",
	"tech":    "Clear and precise delivery. Highlight innovation and functionality.",
	"beauty":  "Warm and aspirational tone. Focus on transformation and confidence.",
	"fitness": "Motivational and energetic delivery. Inspire action and achievement.",
	"luxury":  "Sophisticated and premium tone. Convey exclusivity and quality.",
}

var musicStyles = map[string]string{
	"fashion": "upbeat",
	"tech":    "modern",
	"beauty":  "inspirational",
	"fitness": "energetic",
	"home":    "warm",
	"food":    "comfortable",
	"luxury":  "elegant",
	"general": "upbeat",
}
