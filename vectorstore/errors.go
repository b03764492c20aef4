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


package vectorstore

import "errors"

var (
	// ErrMissingAPIKey indicates no index credential was configured and
	// none was found in the environment. Construction fails on it.
	ErrMissingAPIKey = errors.New("vector index api key is required")

	// ErrMissingIndexName indicates no index name was configured and none
	// was found in the environment. Construction fails on it.
	ErrMissingIndexName = errors.New("vector index name is required")

	// ErrInvalidDimension indicates a non-positive vector dimension.
	ErrInvalidDimension = errors.New("vector dimension must be positive")

	// ErrIndexRequired is returned when a store is constructed without an
	// index client.
	ErrIndexRequired = errors.New("index client is required")

	// ErrEmbedderRequired is returned by QueryByText when no embed
	// function is supplied.
	ErrEmbedderRequired = errors.New("embed function is required")

	// ErrEmptyQueryVector indicates a similarity query with no vector.
	ErrEmptyQueryVector = errors.New("query vector cannot be empty")

	// ErrUpsertFailed wraps index failures during a batched write.
	ErrUpsertFailed = errors.New("vector upsert failed")

	// ErrQueryFailed wraps index failures during a similarity query.
	ErrQueryFailed = errors.New("vector query failed")

	// ErrDeleteFailed wraps index failures during a delete.
	ErrDeleteFailed = errors.New("vector delete failed")

	// ErrStatsFailed wraps index failures while fetching statistics.
	ErrStatsFailed = errors.New("index stats unavailable")
)
