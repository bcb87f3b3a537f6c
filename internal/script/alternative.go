package script

import (
	"strings"
	"time"

	"adpipe/internal/types"

	"github.com/rs/zerolog/log"
)

// approach captures the surface signals one script projects: how pushy it is,
// how loud it is, and what it leans on to sell.
type approach struct {
	Urgency string // high | low
	Style   string // energetic | calm
	Focus   string // quality | value | benefits
}

// SynthesizeAlternative generates a deliberately different take on the same
// product: it reads the previous script's approach, inverts every axis, and
// builds a fixed 21-second script that branches on the inverted signals
// instead of the product's own classification.
func (s *Synthesizer) SynthesizeAlternative(product *types.ProductRecord, previous *types.ScriptRecord) *types.ScriptRecord {
	prev := analyzeApproach(previous)
	next := invertApproach(prev)

	log.Debug().
		Str("prev_urgency", prev.Urgency).Str("next_urgency", next.Urgency).
		Str("prev_style", prev.Style).Str("next_style", next.Style).
		Str("prev_focus", prev.Focus).Str("next_focus", next.Focus).
		Msg("alternative approach chosen")

	rec := s.buildAlternative(product, next)
	if err := Validate(rec); err != nil {
		log.Warn().Err(err).Msg("alternative script invalid, using fallback")
		return s.fallbackScript(product)
	}
	return rec
}

// analyzeApproach reads surface signals out of a script's scene text
func analyzeApproach(rec *types.ScriptRecord) approach {
	var sb strings.Builder
	for _, sc := range rec.Scenes {
		sb.WriteString(sc.Text)
		sb.WriteString(" ")
	}
	text := strings.ToLower(sb.String())

	a := approach{Urgency: "low", Style: "calm", Focus: "benefits"}
	if strings.Contains(text, "now") || strings.Contains(text, "today") {
		a.Urgency = "high"
	}
	if strings.Contains(text, "🔥") || strings.Contains(text, "⚡") {
		a.Style = "energetic"
	}
	if strings.Contains(text, "quality") {
		a.Focus = "quality"
	} else if strings.Contains(text, "price") {
		a.Focus = "value"
	}
	return a
}

func invertApproach(prev approach) approach {
	next := approach{Urgency: "high", Style: "energetic"}
	if prev.Urgency == "high" {
		next.Urgency = "low"
	}
	if prev.Style == "energetic" {
		next.Style = "calm"
	}
	switch prev.Focus {
	case "quality":
		next.Focus = "value"
	case "value":
		next.Focus = "benefits"
	default:
		next.Focus = "quality"
	}
	return next
}

func (s *Synthesizer) buildAlternative(product *types.ProductRecord, a approach) *types.ScriptRecord {
	title := product.Title

	hookText := "Introducing the refined " + title
	hookAnimation := "fade-in"
	if a.Style == "energetic" {
		hookText = "🚀 Revolutionary " + title + "!"
		hookAnimation = "bounce"
	}

	var pitchText string
	switch a.Focus {
	case "quality":
		pitchText = "Experience unmatched quality and craftsmanship."
	case "value":
		pitchText = "Get premium results without the premium price."
	default:
		pitchText = "Discover benefits that transform your daily routine."
	}

	ctaText := "Discover more about " + title + " 🌟"
	ctaAnimation := "fade-in"
	if a.Urgency == "high" {
		ctaText = "Order now! Limited availability! 🔥"
		ctaAnimation = "bounce"
	}

	voiceover := "Professional and trustworthy tone with clear articulation"
	music := "inspirational"
	if a.Style == "energetic" {
		voiceover = "Dynamic and exciting delivery with emphasis on key points"
		music = "upbeat"
	}

	return &types.ScriptRecord{
		Title:         title + " - Alternative Video Ad",
		TotalDuration: 21,
		Scenes: []types.Scene{
			{
				ID: 1, StartTime: 0, Duration: 4, Type: types.SceneHook,
				Text:            hookText,
				VisualDirection: "Product showcase with smooth transitions",
				TextAnimation:   hookAnimation,
			},
			{
				ID: 2, StartTime: 4, Duration: 8, Type: types.SceneProblemSolution,
				Text:            pitchText,
				VisualDirection: "Feature highlights with elegant presentation",
				TextAnimation:   "slide-up",
			},
			{
				ID: 3, StartTime: 12, Duration: 6, Type: types.SceneShowcase,
				Text:            title + " - where innovation meets perfection. See the difference.",
				VisualDirection: "Detailed product views with professional lighting",
				TextAnimation:   "zoom-in",
			},
			{
				ID: 4, StartTime: 18, Duration: 3, Type: types.SceneCallToAction,
				Text:            ctaText,
				VisualDirection: "Clear call-to-action with contact information",
				TextAnimation:   ctaAnimation,
			},
		},
		VoiceoverNotes:  voiceover,
		BackgroundMusic: music,
		Metadata: types.ScriptMetadata{
			Urgency:     a.Urgency,
			Style:       a.Style,
			Focus:       a.Focus,
			Generator:   "local-alternative-template",
			GeneratedAt: s.now().UTC().Format(time.RFC3339),
		},
	}
}
