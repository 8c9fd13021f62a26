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

package querygraph

import "errors"

var (
	// ErrInvalidConfig indicates a config file or value could not be used.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrNoArchive is returned by archive queries when storage is disabled.
	ErrNoArchive = errors.New("report archive is disabled; set storage.path or --db")

	// ErrArchiveOnly is returned by Research on an engine built with ArchiveOnly.
	ErrArchiveOnly = errors.New("engine was opened for archive access only")
)
