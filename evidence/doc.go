// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package evidence turns search results into ranked, scored sentences.
//
// The Aggregator fetches every URL on a bounded ants worker pool, splits
// each page into sentences, embeds them in batches and scores each sentence
// against a target vector (normally the query embedding). Scored items land
// in a rank.Index and, once every page task has finished, the most similar
// items are read back from the top bucket down.
//
// A page that fails to fetch or embed is logged and skipped. Only a
// cancelled context stops a run early.
package evidence
