package secureagent

// Model names a chat model. Provider packages define typed constants.
type Model interface {
	String() string
}

// Options is the per-request configuration built from Option values.
type Options struct {
	Model       Model    // nil keeps the provider's model
	MaxTokens   int      // 0 keeps the provider default
	Temperature *float64 // nil keeps the provider default
	Tools       []Tool
	ToolChoice  ToolChoice // "" sends no tool_choice
}

// Option adjusts a single chat request.
type Option func(*Options)

// WithModel overrides the provider's model for one request.
func WithModel(m Model) Option { return func(o *Options) { o.Model = m } }

// WithMaxTokens caps the generated tokens.
func WithMaxTokens(n int) Option { return func(o *Options) { o.MaxTokens = n } }

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option { return func(o *Options) { o.Temperature = &t } }

// WithTools offers tools to the model.
func WithTools(tools []Tool) Option { return func(o *Options) { o.Tools = tools } }

// WithToolChoice says whether the model may, must or must not call tools.
func WithToolChoice(c ToolChoice) Option { return func(o *Options) { o.ToolChoice = c } }

// ApplyOptions folds opts into a fresh Options; later options win.
func ApplyOptions(opts ...Option) *Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}
