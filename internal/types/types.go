package types

// ProductRecord is the normalized description of a product, scraped from a
// page or synthesized from the URL when scraping fails.
type ProductRecord struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Images      []string `json:"images"`
	Features    []string `json:"features"`
	SourceURL   string   `json:"url"`
	IsSynthetic bool     `json:"is_synthetic"`
}

// Scene types
const (
	SceneHook            = "hook"
	SceneProblemSolution = "problem-solution"
	SceneShowcase        = "product-showcase"
	SceneCallToAction    = "call-to-action"
)

// Scene is one timed segment of an ad script
type Scene struct {
	ID              int    `json:"id"` // 1-based position
	StartTime       int    `json:"startTime"`
	Duration        int    `json:"duration"`
	Type            string `json:"type"`
	Text            string `json:"text"`
	VisualDirection string `json:"visualDirection"`
	TextAnimation   string `json:"textAnimation"`
}

// ScriptMetadata records the classification that shaped a script. Style and
// Focus are set only by the alternative generator, which picks them by
// inverting the previous script's approach.
type ScriptMetadata struct {
	Category    string `json:"category"`
	PriceTier   string `json:"priceTier"`
	Urgency     string `json:"urgencyLevel"`
	Style       string `json:"style,omitempty"`
	Focus       string `json:"focus,omitempty"`
	Generator   string `json:"generator"`
	GeneratedAt string `json:"generatedAt"`
}

// ScriptRecord is the full structured script for one ad video.
// Invariant: scenes are contiguous and their durations sum to TotalDuration.
type ScriptRecord struct {
	Title           string         `json:"title"`
	TotalDuration   int            `json:"totalDuration"`
	Scenes          []Scene        `json:"scenes"`
	VoiceoverNotes  string         `json:"voiceoverNotes"`
	BackgroundMusic string         `json:"backgroundMusic"`
	Metadata        ScriptMetadata `json:"metadata"`
}

// ArtifactMetadata echoes the inputs a video was built from
type ArtifactMetadata struct {
	ProductTitle string `json:"product_title"`
	ScriptTitle  string `json:"script_title"`
	CreatedAt    string `json:"created_at"`
	Quality      string `json:"quality"`
}

// VideoArtifact is a rendered video persisted in the output directory
type VideoArtifact struct {
	ID            string           `json:"video_id"`
	FilePath      string           `json:"file_path"`
	Duration      int              `json:"duration"`
	FileSizeBytes int64            `json:"file_size_bytes"`
	Metadata      ArtifactMetadata `json:"metadata"`
}

// PipelineResult bundles everything one full pipeline run produced
type PipelineResult struct {
	Product *ProductRecord `json:"productData"`
	Script  *ScriptRecord  `json:"script"`
	Video   *VideoArtifact `json:"video"`
}
