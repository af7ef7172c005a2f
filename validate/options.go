package validate

import "github.com/lvillar/doclayout"

const (
	defaultMaxDepth    = 10
	defaultMaxChildren = 50
)

type config struct {
	strict            bool
	sampleData        doclayout.Value
	hasSampleData     bool
	checkExpressions  bool
	checkDeprecations bool
	checkPerformance  bool
	checkImageURLs    bool
	checkFonts        bool
	maxDepth          int
	maxChildren       int
}

// Option configures a validation pass.
type Option func(*config)

// WithStrictMode promotes every warning to an error.
func WithStrictMode() Option {
	return func(c *config) { c.strict = true }
}

// WithSampleData enables semantic checks that evaluate repeat sources
// against representative data.
func WithSampleData(data doclayout.Value) Option {
	return func(c *config) {
		c.sampleData = data
		c.hasSampleData = true
	}
}

// WithoutExpressionValidation skips syntax checking of embedded expressions.
func WithoutExpressionValidation() Option {
	return func(c *config) { c.checkExpressions = false }
}

// WithoutDeprecationChecks suppresses warnings about deprecated component
// kinds.
func WithoutDeprecationChecks() Option {
	return func(c *config) { c.checkDeprecations = false }
}

// WithoutPerformanceWarnings suppresses the nesting-depth, child-count and
// wrapper-chain warnings.
func WithoutPerformanceWarnings() Option {
	return func(c *config) { c.checkPerformance = false }
}

// WithoutImageURLChecks suppresses warnings about non-TLS image sources.
func WithoutImageURLChecks() Option {
	return func(c *config) { c.checkImageURLs = false }
}

// WithoutFontChecks suppresses warnings about font families outside the
// built-in set.
func WithoutFontChecks() Option {
	return func(c *config) { c.checkFonts = false }
}

// WithMaxDepth overrides the nesting depth above which a warning is issued.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithMaxChildren overrides the per-container child count above which a
// warning is issued.
func WithMaxChildren(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxChildren = n
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		checkExpressions:  true,
		checkDeprecations: true,
		checkPerformance:  true,
		checkImageURLs:    true,
		checkFonts:        true,
		maxDepth:          defaultMaxDepth,
		maxChildren:       defaultMaxChildren,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
