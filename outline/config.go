package outline

import "log/slog"

// Config controls every stage of the inference engine. Start from
// [DefaultConfig]; the zero value disables nothing sensibly.
type Config struct {
	// MaxTiers caps the number of heading tiers above the body tier.
	// Deeper visual nesting collapses into the deepest tier. Default: 4
	MaxTiers int

	// MinHeadingWords is the minimum word count for pattern promotion
	// of body-tier text. Default: 2
	MinHeadingWords int

	// MaxHeadingWords is the maximum word count for pattern promotion.
	// Longer runs read as sentences, not headings. Default: 15
	MaxHeadingWords int

	// MaxHeadingChars is the absolute character ceiling for any heading
	// candidate regardless of promotion rule. Default: 120
	MaxHeadingChars int

	// LegaleseDensity rejects pattern promotion when the fraction of
	// modal obligation words (shall, must, will, ...) in the text
	// reaches this value. Default: 0.15
	LegaleseDensity float64

	// MinTierGap is the minimum gap in points between adjacent size
	// tiers. Tiers closer than this merge into one. Default: 1.0
	MinTierGap float64

	// Seed fixes the clustering initialization. Identical input with an
	// identical seed always yields identical tiers. Default: 42
	Seed int64

	// MaxIterations bounds the clustering refinement loop. Default: 25
	MaxIterations int

	// TitlePageWindow is the number of pages at the start of the
	// document searched for the title. Default: 2
	TitlePageWindow int

	// RepeatPageLimit drops accepted text that recurs on at least this
	// many distinct pages, treating it as a running header or footer.
	// Default: 3
	RepeatPageLimit int

	// Workers bounds the page classification pool. Default: 4
	Workers int

	// Logger receives per-stage debug detail. Nil means slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxTiers:        4,
		MinHeadingWords: 2,
		MaxHeadingWords: 15,
		MaxHeadingChars: 120,
		LegaleseDensity: 0.15,
		MinTierGap:      1.0,
		Seed:            42,
		MaxIterations:   25,
		TitlePageWindow: 2,
		RepeatPageLimit: 3,
		Workers:         4,
	}
}

// sanitize fills zero-valued fields from the defaults so a partially
// populated Config behaves predictably.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.MaxTiers <= 0 {
		c.MaxTiers = def.MaxTiers
	}
	if c.MinHeadingWords <= 0 {
		c.MinHeadingWords = def.MinHeadingWords
	}
	if c.MaxHeadingWords <= 0 {
		c.MaxHeadingWords = def.MaxHeadingWords
	}
	if c.MaxHeadingChars <= 0 {
		c.MaxHeadingChars = def.MaxHeadingChars
	}
	if c.LegaleseDensity <= 0 {
		c.LegaleseDensity = def.LegaleseDensity
	}
	if c.MinTierGap <= 0 {
		c.MinTierGap = def.MinTierGap
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = def.MaxIterations
	}
	if c.TitlePageWindow <= 0 {
		c.TitlePageWindow = def.TitlePageWindow
	}
	if c.RepeatPageLimit <= 0 {
		c.RepeatPageLimit = def.RepeatPageLimit
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
