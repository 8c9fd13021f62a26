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

// Package websearch runs boolean web searches and gathers the result URLs.
//
// GoogleSearcher talks to the Google Custom Search JSON API. Collect fans a
// set of search queries out over a bounded errgroup and merges the results
// into one URLRecord per distinct URL, remembering which queries found it.
// Any search failure aborts the collection.
package websearch
