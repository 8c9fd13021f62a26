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

// Package research runs the full question-to-evidence pipeline.
//
// A Researcher asks the language model for an initial answer, pairs the
// answer's noun phrases with the query's, turns the pairs into boolean web
// searches, gathers and ranks sentences from the result pages, and links
// each ranked sentence back to the answer sentences it supports. The
// outcome is a core.Report.
//
// A Monitor observes each stage of a run. LogMonitor writes the stages to
// a slog.Logger; passing nil runs without observation.
package research
