// Package ai provides abstractions for the AI services querygraph depends on.
//
// The research pipeline never talks to a model directly. It depends on four
// narrow interfaces:
//
//   - Embedder: turns text into vectors
//   - Parser: finds noun phrases and sentence spans
//   - Answerer: produces the initial free-text answer
//   - RelationClassifier: labels evidence as entailment, contradiction or neutral
//
// AIProvider bundles one of each behind a single Close.
//
// # Implementation Packages
//
//   - ai/langchain: production implementation over langchaingo, speaking
//     either an OpenAI-compatible API or Ollama's native API
//   - ai/cached: an Embedder decorator backed by storage.EmbeddingCache
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors in ai/langchain return interface types. Mock
// constructors return concrete types so tests can inject behaviour and
// assert on call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:11434"), ai.WithBackend(ai.BackendOllama))
//	provider, err := langchain.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	answer, err := provider.Answerer().Ask(ctx, "Who was the first person on the moon?")
//	parsed, err := provider.Parser().Parse(ctx, answer)
package ai
