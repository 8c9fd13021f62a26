// Package keywords turns an LLM answer into web search queries.
//
// Extractor parses the query and the answer into noun phrases and pairs each
// answer phrase with the query phrase closest to it in embedding space,
// keeping only pairs within a cosine-distance threshold. BuildQueries expands
// every pair into an AND query and an OR query.
package keywords
