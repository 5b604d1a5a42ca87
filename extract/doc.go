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


// Package extract turns stored articles into upload-ready documents.
//
// The Engine fetches each article's page with a browser user agent,
// extracts the main body text with trafilatura, and falls back to the
// stored search snippet (or title) when the page yields nothing. Page
// metadata is merged with the stored search result, preferring what the
// page declares about itself. Every extraction attempt records a
// permanent outcome on the article, successful or not.
package extract
