// Package mock provides test double implementations of AI service interfaces.
//
// The mocks let tests run without external AI services and give
// deterministic results. Every mock is safe for concurrent use.
//
// # Usage in Tests
//
//	provider := mock.NewMockProvider()
//	vec, err := provider.Embedder().EmbedText(ctx, "test")
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
//	    return nil, errors.New("unavailable")
//	}
//	count := embedder.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: deterministic unit vectors derived from a text hash
//   - MockParser: every word of three or more letters is a phrase
//   - MockAnswerer: returns DefaultAnswer
//   - MockClassifier: labels everything neutral
package mock
