// Package openai provides a chat provider backed by the OpenAI
// chat-completions API.
//
// Any server that speaks the same dialect can be targeted with
// [WithBaseURL], including a security proxy sitting in front of OpenAI:
//
//	direct := openai.New(apiKey)
//	proxied := openai.New(apiKey, openai.WithBaseURL("http://localhost:9000/v1"))
//
// Set a default model at client creation:
//
//	client := openai.New(apiKey, openai.WithModel(openai.GPT4oMini))
//
// Or override per request:
//
//	resp, err := client.Chat(ctx, messages, ai.WithModel(openai.GPT41))
//
// API failures are returned as categorized errors; see [ai.IsTransient].
package openai
