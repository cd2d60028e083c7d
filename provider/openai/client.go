package openai

import (
	"context"
	"net/http"

	ai "github.com/archestra-ai/secure-agent"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
)

// DefaultBaseURL is the public OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Client is an ai.ChatProvider for any endpoint speaking the OpenAI chat
// completions API, including a security proxy in front of it.
type Client struct {
	sdk     openai.Client
	model   ChatModel
	baseURL string
}

type settings struct {
	model   ChatModel
	baseURL string
	sdk     []option.RequestOption
}

// ClientOption configures a Client.
type ClientOption func(*settings)

// WithModel sets the model used when a call does not name one.
func WithModel(model ChatModel) ClientOption { return func(s *settings) { s.model = model } }

// WithBaseURL sends requests to url instead of DefaultBaseURL.
func WithBaseURL(url string) ClientOption { return func(s *settings) { s.baseURL = url } }

// WithHTTPClient sets the HTTP client of the SDK.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(s *settings) { s.sdk = append(s.sdk, option.WithHTTPClient(hc)) }
}

// WithMaxRetries sets how often the SDK retries a failed request. A
// negative n keeps the SDK default.
func WithMaxRetries(n int) ClientOption {
	return func(s *settings) {
		if n >= 0 {
			s.sdk = append(s.sdk, option.WithMaxRetries(n))
		}
	}
}

// New creates a Client authenticating with apiKey.
func New(apiKey string, opts ...ClientOption) *Client {
	s := settings{model: DefaultChatModel, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(&s)
	}

	sdkOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(s.baseURL),
	}, s.sdk...)

	return &Client{
		sdk:     openai.NewClient(sdkOpts...),
		model:   s.model,
		baseURL: s.baseURL,
	}
}

// BaseURL returns the endpoint requests go to.
func (c *Client) BaseURL() string { return c.baseURL }

// Model returns the default model.
func (c *Client) Model() ChatModel { return c.model }

// Chat makes one blocking completion call.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	params, err := c.request(messages, ai.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}

	completion, err := c.sdk.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	return response(completion.Choices, completion.Usage)
}

// ChatStream makes a streaming completion call. Text arrives as deltas; the
// final event is Done with the assembled response, or carries Err. The
// channel is closed after it.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	params, err := c.request(messages, ai.ApplyOptions(opts...))
	if err != nil {
		return nil, err
	}
	params.StreamOptions.IncludeUsage = openai.Bool(true)

	out := make(chan ai.StreamEvent)
	go relay(ctx, c.sdk.Chat.Completions.NewStreaming(ctx, params), out)
	return out, nil
}

// relay forwards the text of stream to out and ends with the response the
// chunks add up to. It stops early when ctx is done.
func relay(ctx context.Context, stream *ssestream.Stream[openai.ChatCompletionChunk], out chan<- ai.StreamEvent) {
	defer close(out)
	defer stream.Close()

	send := func(ev ai.StreamEvent) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	var acc openai.ChatCompletionAccumulator
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		if !send(ai.StreamEvent{Delta: chunk.Choices[0].Delta.Content}) {
			return
		}
	}
	if err := stream.Err(); err != nil {
		send(ai.StreamEvent{Err: wrapError(err)})
		return
	}

	resp, err := response(acc.Choices, acc.Usage)
	if err != nil {
		send(ai.StreamEvent{Err: err})
		return
	}
	send(ai.StreamEvent{Done: true, Response: resp})
}

var _ ai.ChatProvider = (*Client)(nil)
