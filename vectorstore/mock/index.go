package mock

import (
	"context"
	"math"
	"slices"
	"sync"

	"github.com/poiesic/recallit/vectorstore"
)

// MockIndex is an in-memory implementation of vectorstore.Index for testing.
// By default it behaves like a small real index: upserts replace by ID,
// queries rank stored vectors by cosine similarity, and deletes honor both
// id lists and $eq metadata filters. Tests can override any operation by
// setting the corresponding Func field, typically to inject errors.
type MockIndex struct {
	UpsertFunc         func(ctx context.Context, namespace string, vectors []vectorstore.Vector) error
	QueryFunc          func(ctx context.Context, namespace string, req vectorstore.QueryRequest) ([]vectorstore.Match, error)
	DeleteByIDsFunc    func(ctx context.Context, namespace string, ids []string) error
	DeleteByFilterFunc func(ctx context.Context, namespace string, filter map[string]any) error
	DeleteAllFunc      func(ctx context.Context, namespace string) error
	StatsFunc          func(ctx context.Context) (*vectorstore.IndexStats, error)
	IndexExistsFunc    func(ctx context.Context) (bool, error)
	EnsureIndexFunc    func(ctx context.Context) error

	mu          sync.Mutex
	namespaces  map[string]map[string]vectorstore.Vector
	created     bool
	upsertCalls int
	queryCalls  int
	deleteCalls int
	statsCalls  int
}

var _ vectorstore.Index = (*MockIndex)(nil)

// NewMockIndex creates an empty in-memory index. The index does not "exist"
// until EnsureIndex is called.
func NewMockIndex() *MockIndex {
	return &MockIndex{
		namespaces: make(map[string]map[string]vectorstore.Vector),
	}
}

// Upsert stores vectors in a namespace, replacing entries that share an ID.
func (m *MockIndex) Upsert(ctx context.Context, namespace string, vectors []vectorstore.Vector) error {
	m.mu.Lock()
	m.upsertCalls++
	fn := m.UpsertFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, namespace, vectors)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.namespaces[namespace]
	if !ok {
		ns = make(map[string]vectorstore.Vector)
		m.namespaces[namespace] = ns
	}
	for _, vector := range vectors {
		ns[vector.ID] = vector
	}
	return nil
}

// Query ranks the namespace's vectors by cosine similarity to req.Vector.
func (m *MockIndex) Query(ctx context.Context, namespace string, req vectorstore.QueryRequest) ([]vectorstore.Match, error) {
	m.mu.Lock()
	m.queryCalls++
	fn := m.QueryFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, namespace, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	matches := make([]vectorstore.Match, 0)
	for _, vector := range m.namespaces[namespace] {
		if req.Filter != nil && !matchesFilter(vector.Metadata, req.Filter) {
			continue
		}
		match := vectorstore.Match{
			ID:    vector.ID,
			Score: cosineSimilarity(req.Vector, vector.Values),
		}
		if req.IncludeMetadata {
			match.Metadata = vector.Metadata
		}
		matches = append(matches, match)
	}

	slices.SortStableFunc(matches, func(a, b vectorstore.Match) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if req.TopK > 0 && len(matches) > req.TopK {
		matches = matches[:req.TopK]
	}
	return matches, nil
}

// DeleteByIDs removes the identified vectors. Unknown IDs are ignored.
func (m *MockIndex) DeleteByIDs(ctx context.Context, namespace string, ids []string) error {
	m.mu.Lock()
	m.deleteCalls++
	fn := m.DeleteByIDsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, namespace, ids)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ns := m.namespaces[namespace]
	for _, id := range ids {
		delete(ns, id)
	}
	return nil
}

// DeleteByFilter removes every vector whose metadata matches the filter.
func (m *MockIndex) DeleteByFilter(ctx context.Context, namespace string, filter map[string]any) error {
	m.mu.Lock()
	m.deleteCalls++
	fn := m.DeleteByFilterFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, namespace, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ns := m.namespaces[namespace]
	for id, vector := range ns {
		if matchesFilter(vector.Metadata, filter) {
			delete(ns, id)
		}
	}
	return nil
}

// DeleteAll removes every vector in a namespace.
func (m *MockIndex) DeleteAll(ctx context.Context, namespace string) error {
	m.mu.Lock()
	m.deleteCalls++
	fn := m.DeleteAllFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, namespace)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.namespaces, namespace)
	return nil
}

// Stats reports counts over the stored vectors. Dimension is taken from the
// first vector encountered.
func (m *MockIndex) Stats(ctx context.Context) (*vectorstore.IndexStats, error) {
	m.mu.Lock()
	m.statsCalls++
	fn := m.StatsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &vectorstore.IndexStats{
		Namespaces: make(map[string]vectorstore.NamespaceStats),
	}
	for name, ns := range m.namespaces {
		stats.Namespaces[name] = vectorstore.NamespaceStats{VectorCount: len(ns)}
		stats.TotalVectorCount += len(ns)
		for _, vector := range ns {
			if stats.Dimension == 0 {
				stats.Dimension = len(vector.Values)
			}
			break
		}
	}
	return stats, nil
}

// IndexExists reports whether EnsureIndex has been called.
func (m *MockIndex) IndexExists(ctx context.Context) (bool, error) {
	m.mu.Lock()
	fn := m.IndexExistsFunc
	created := m.created
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return created, nil
}

// EnsureIndex marks the index as created.
func (m *MockIndex) EnsureIndex(ctx context.Context) error {
	m.mu.Lock()
	fn := m.EnsureIndexFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = true
	return nil
}

// VectorCount returns the number of vectors stored in a namespace.
func (m *MockIndex) VectorCount(namespace string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.namespaces[namespace])
}

// Vector returns a stored vector by namespace and ID.
func (m *MockIndex) Vector(namespace, id string) (vectorstore.Vector, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vector, ok := m.namespaces[namespace][id]
	return vector, ok
}

// IDs returns the sorted IDs stored in a namespace.
func (m *MockIndex) IDs(namespace string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.namespaces[namespace]))
	for id := range m.namespaces[namespace] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// UpsertCalls returns the number of times Upsert was invoked.
func (m *MockIndex) UpsertCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertCalls
}

// QueryCalls returns the number of times Query was invoked.
func (m *MockIndex) QueryCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCalls
}

// DeleteCalls returns the number of delete invocations of any kind.
func (m *MockIndex) DeleteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteCalls
}

// StatsCalls returns the number of times Stats was invoked.
func (m *MockIndex) StatsCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsCalls
}

// Reset clears stored vectors, call counts, and the created flag.
func (m *MockIndex) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces = make(map[string]map[string]vectorstore.Vector)
	m.created = false
	m.upsertCalls = 0
	m.queryCalls = 0
	m.deleteCalls = 0
	m.statsCalls = 0
}

// matchesFilter evaluates the small filter dialect the store emits: direct
// equality or {"$eq": value} per key.
func matchesFilter(metadata map[string]any, filter map[string]any) bool {
	for key, condition := range filter {
		want := condition
		if operators, ok := condition.(map[string]any); ok {
			if eq, ok := operators["$eq"]; ok {
				want = eq
			}
		}
		if metadata == nil || metadata[key] != want {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
