package script

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"adpipe/internal/types"

	"github.com/rs/zerolog/log"
)

// Synthesizer turns a ProductRecord into a timed ad script using fixed
// classification heuristics. The only randomized step is the template pick;
// the random source is injectable so tests can pin the seed.
type Synthesizer struct {
	rng *rand.Rand
	now func() time.Time
}

func New() *Synthesizer {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewWithSource(src rand.Source) *Synthesizer {
	return &Synthesizer{
		rng: rand.New(src),
		now: time.Now,
	}
}

// Synthesize builds a 4-scene script from the product's classification.
// It never fails: a script that does not validate is replaced by the fixed
// fallback script.
func (s *Synthesizer) Synthesize(product *types.ProductRecord) *types.ScriptRecord {
	category := classifyCategory(product.Title, product.Description)
	tier := classifyPriceTier(product.Price)
	benefits := extractBenefits(product.Description, product.Features)
	urgency := urgencyLevel(category, tier)

	log.Debug().
		Str("category", category).
		Str("tier", tier).
		Str("urgency", urgency).
		Strs("benefits", benefits).
		Msg("product classified")

	rec := &types.ScriptRecord{
		Title:           product.Title + " - Video Advertisement",
		Scenes:          s.buildScenes(product, category, tier, benefits, urgency),
		VoiceoverNotes:  voiceoverNotes(category, urgency),
		BackgroundMusic: backgroundMusic(category),
		Metadata: types.ScriptMetadata{
			Category:    category,
			PriceTier:   tier,
			Urgency:     urgency,
			Generator:   "local-intelligent-template",
			GeneratedAt: s.now().UTC().Format(time.RFC3339),
		},
	}
	for _, sc := range rec.Scenes {
		rec.TotalDuration += sc.Duration
	}

	if err := Validate(rec); err != nil {
		log.Warn().Err(err).Msg("synthesized script invalid, using fallback")
		return s.fallbackScript(product)
	}
	return rec
}

// --- classification ---

func classifyCategory(title, description string) string {
	text := strings.ToLower(title + " " + description)
	for _, entry := range categoryTable {
		for _, kw := range entry.Keywords {
			if strings.Contains(text, kw) {
				return entry.Name
			}
		}
	}
	return "general"
}

// classifyPriceTier buckets the numeric part of a free-form price string.
// Thresholds are literal: <25 budget, <100 affordable, <500 premium.
func classifyPriceTier(price string) string {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return "unknown"
	}
	switch {
	case value < 25:
		return "budget"
	case value < 100:
		return "affordable"
	case value < 500:
		return "premium"
	default:
		return "luxury"
	}
}

func extractBenefits(description string, features []string) []string {
	text := strings.ToLower(description + " " + strings.Join(features, " "))
	var benefits []string
	for _, entry := range benefitTable {
		for _, kw := range entry.Keywords {
			if strings.Contains(text, kw) {
				benefits = append(benefits, entry.Benefit)
				break
			}
		}
		if len(benefits) == 3 {
			break
		}
	}
	if len(benefits) == 0 {
		return []string{"amazing quality", "great value"}
	}
	return benefits
}

func urgencyLevel(category, tier string) string {
	score := urgencyScore(category) + urgencyScore(tier)
	switch {
	case score >= 3:
		return "high"
	case score >= 2:
		return "medium"
	default:
		return "low"
	}
}

func urgencyScore(key string) int {
	if v, ok := urgencyFactors[key]; ok {
		return v
	}
	return 1
}

// --- scene assembly ---

func (s *Synthesizer) buildScenes(product *types.ProductRecord, category, tier string, benefits []string, urgency string) []types.Scene {
	leadBenefit := "amazing benefits"
	if len(benefits) > 0 {
		leadBenefit = benefits[0]
	}

	benefitText := "premium quality"
	if len(benefits) > 0 {
		top := benefits
		if len(top) > 2 {
			top = top[:2]
		}
		benefitText = strings.Join(top, " and ")
	}

	ctaAnimation := "fade-in"
	if urgency == "high" {
		ctaAnimation = "bounce"
	}

	return []types.Scene{
		{
			ID:              1,
			StartTime:       0,
			Duration:        4,
			Type:            types.SceneHook,
			Text:            s.pickHook(product.Title, urgency),
			VisualDirection: "Dynamic product hero shot with zoom effect",
			TextAnimation:   "zoom-in",
		},
		{
			ID:              2,
			StartTime:       4,
			Duration:        8,
			Type:            types.SceneProblemSolution,
			Text:            problemSolutionText(category, leadBenefit),
			VisualDirection: "Split screen showing problem vs solution with product",
			TextAnimation:   "slide-up",
		},
		{
			ID:              3,
			StartTime:       12,
			Duration:        6,
			Type:            types.SceneShowcase,
			Text:            showcaseText(product.Title, benefitText, tier),
			VisualDirection: "Close-up product shots highlighting key features",
			TextAnimation:   "fade-in",
		},
		{
			ID:              4,
			StartTime:       18,
			Duration:        3,
			Type:            types.SceneCallToAction,
			Text:            s.pickCTA(urgency, product.Price),
			VisualDirection: "Strong CTA overlay with product logo and price",
			TextAnimation:   ctaAnimation,
		},
	}
}

func (s *Synthesizer) pickHook(title, urgency string) string {
	pool, ok := hookPools[urgency]
	if !ok {
		pool = hookPools["medium"]
	}
	return fmt.Sprintf(pool[s.rng.Intn(len(pool))], title)
}

func problemSolutionText(category, benefit string) string {
	tmpl, ok := problemSolutionTemplates[category]
	if !ok {
		tmpl = problemSolutionTemplates["general"]
	}
	return fmt.Sprintf(tmpl, benefit)
}

func showcaseText(title, benefitText, tier string) string {
	tmpl, ok := showcaseTemplates[tier]
	if !ok {
		tmpl = showcaseTemplates["affordable"]
	}
	return fmt.Sprintf(tmpl, title, benefitText)
}

func (s *Synthesizer) pickCTA(urgency, price string) string {
	pool, ok := ctaPools[urgency]
	if !ok {
		pool = ctaPools["medium"]
	}
	tmpl := pool[s.rng.Intn(len(pool))]
	if price != "" {
		if strings.Contains(tmpl.WithPrice, "%s") {
			return fmt.Sprintf(tmpl.WithPrice, price)
		}
		return tmpl.WithPrice
	}
	return tmpl.WithoutPrice
}

func voiceoverNotes(category, urgency string) string {
	return strings.TrimSpace(voiceoverTones[urgency] + " " + voiceoverTypeNotes[category])
}

func backgroundMusic(category string) string {
	if style, ok := musicStyles[category]; ok {
		return style
	}
	return "upbeat"
}

// Validate checks the structural invariants every script must satisfy
func Validate(rec *types.ScriptRecord) error {
	if rec == nil || len(rec.Scenes) == 0 {
		return fmt.Errorf("script has no scenes")
	}
	sum := 0
	for i, sc := range rec.Scenes {
		if strings.TrimSpace(sc.Text) == "" {
			return fmt.Errorf("scene %d has empty text", i+1)
		}
		if sc.StartTime < 0 || sc.Duration <= 0 {
			return fmt.Errorf("scene %d has invalid timing", i+1)
		}
		if i > 0 {
			prev := rec.Scenes[i-1]
			if prev.StartTime+prev.Duration != sc.StartTime {
				return fmt.Errorf("scene %d is not contiguous", i+1)
			}
		}
		sum += sc.Duration
	}
	if sum != rec.TotalDuration {
		return fmt.Errorf("scene durations sum to %d, total is %d", sum, rec.TotalDuration)
	}
	return nil
}

// fallbackScript is the canned script used when synthesis produces something
// invalid. Built only from the title and first feature.
func (s *Synthesizer) fallbackScript(product *types.ProductRecord) *types.ScriptRecord {
	title := product.Title
	if title == "" {
		title = "Amazing Product"
	}
	mainFeature := "premium quality"
	if len(product.Features) > 0 {
		mainFeature = product.Features[0]
	}

	return &types.ScriptRecord{
		Title:         title + " Video Ad",
		TotalDuration: 20,
		Scenes: []types.Scene{
			{
				ID: 1, StartTime: 0, Duration: 4, Type: types.SceneHook,
				Text:            "🔥 Introducing " + title + "!",
				VisualDirection: "Hero product image with dynamic zoom",
				TextAnimation:   "zoom-in",
			},
			{
				ID: 2, StartTime: 4, Duration: 8, Type: types.SceneProblemSolution,
				Text:            "Transform your life with " + mainFeature + " and innovative design.",
				VisualDirection: "Product benefits showcase with smooth transitions",
				TextAnimation:   "slide-up",
			},
			{
				ID: 3, StartTime: 12, Duration: 6, Type: types.SceneShowcase,
				Text:            "✨ Premium quality meets unbeatable value",
				VisualDirection: "Close-up product shots highlighting key features",
				TextAnimation:   "fade-in",
			},
			{
				ID: 4, StartTime: 18, Duration: 2, Type: types.SceneCallToAction,
				Text:            "Order Now! 📱",
				VisualDirection: "Strong CTA overlay with product logo",
				TextAnimation:   "bounce",
			},
		},
		VoiceoverNotes:  "Upbeat, confident, and persuasive tone with clear pronunciation",
		BackgroundMusic: "upbeat",
		Metadata: types.ScriptMetadata{
			Generator:   "local-fallback-template",
			GeneratedAt: s.now().UTC().Format(time.RFC3339),
		},
	}
}
