// Package rank scores and orders evidence.
//
// It provides the vector math shared by the pipeline (cosine distance, dot
// product, normalisation), a fixed-resolution histogram index that selects
// the top-k most similar items in linear time, and the relevance linker that
// flags the answer sentences an evidence item is unusually relevant to.
package rank
