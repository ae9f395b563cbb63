package docmorph

// Option configures an Engine instance.
type Option func(*Engine)

// WithExternalTool configures whether container conversions may shell out
// to the external tool (default: true). The native converters remain the
// fallback either way.
func WithExternalTool(enabled bool) Option {
	return func(e *Engine) {
		e.useTool = enabled
	}
}

// WithPandocPath sets an explicit pandoc binary and skips discovery.
func WithPandocPath(path string) Option {
	return func(e *Engine) {
		e.tool.path = path
	}
}

// WithReferenceTemplate sets a reference container handed to the external
// tool for Markdown-to-container styling. Ignored when the file does not
// exist at conversion time.
func WithReferenceTemplate(path string) Option {
	return func(e *Engine) {
		e.tool.referenceDoc = path
	}
}
