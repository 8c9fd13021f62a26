// Package langchain provides AI service implementations over langchaingo.
//
// It implements ai.AIProvider against either an OpenAI-compatible API
// (OpenAI, vLLM, LocalAI, Ollama's /v1 endpoint) or Ollama's native API,
// selected by ai.Config.Backend.
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically for openai
//	    ai.WithChatModel("qwen2.5:3b"),
//	)
//
//	provider, err := langchain.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	answer, err := provider.Answerer().Ask(ctx, "Who was the first person on the moon?")
//	parsed, err := provider.Parser().Parse(ctx, answer)
//
// The Parser asks the chat model for the noun phrases of a text in JSON
// mode, locates each phrase in the text, and embeds them in one batch.
// Sentence spans come from package segment, so sentence indices agree with
// the rest of the pipeline.
package langchain
