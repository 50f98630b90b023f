// Package store provides the graph storage backing diagram views.
package store

import (
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-pipeline-config/pkg/pipeline/model"
)

type edgeKey struct {
	source, target string
}

// NodeStore is an in-memory graph.Store of diagram nodes keyed by node id. Vertices and edges
// are listed in insertion order so a view built twice from the same document renders the same way.
type NodeStore struct {
	lock             sync.RWMutex
	vertices         map[string]model.Node
	vertexProperties map[string]*graph.VertexProperties
	vertexOrder      []string
	edgeOrder        []edgeKey

	// outEdges and inEdges hold every edge twice, keyed by source then target and by target then source.
	outEdges map[string]map[string]graph.Edge[string]
	inEdges  map[string]map[string]graph.Edge[string]
}

// NewNodeStore returns an empty store.
func NewNodeStore() *NodeStore {
	return &NodeStore{
		vertices:         make(map[string]model.Node),
		vertexProperties: make(map[string]*graph.VertexProperties),
		outEdges:         make(map[string]map[string]graph.Edge[string]),
		inEdges:          make(map[string]map[string]graph.Edge[string]),
	}
}

func (s *NodeStore) AddVertex(k string, n model.Node, p graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; ok {
		return graph.ErrVertexAlreadyExists
	}

	s.vertices[k] = n
	s.vertexProperties[k] = &p
	s.vertexOrder = append(s.vertexOrder, k)

	return nil
}

func (s *NodeStore) ListVertices() ([]string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	hashes := make([]string, len(s.vertexOrder))
	copy(hashes, s.vertexOrder)

	return hashes, nil
}

func (s *NodeStore) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.vertices), nil
}

func (s *NodeStore) Vertex(k string) (model.Node, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.vertex(k)
}

func (s *NodeStore) vertex(k string) (model.Node, graph.VertexProperties, error) {
	n, ok := s.vertices[k]
	if !ok {
		return n, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	return n, *s.vertexProperties[k], nil
}

func (s *NodeStore) RemoveVertex(k string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; !ok {
		return graph.ErrVertexNotFound
	}

	if len(s.inEdges[k]) > 0 || len(s.outEdges[k]) > 0 {
		return graph.ErrVertexHasEdges
	}

	delete(s.inEdges, k)
	delete(s.outEdges, k)
	delete(s.vertices, k)
	delete(s.vertexProperties, k)

	for i, hash := range s.vertexOrder {
		if hash == k {
			s.vertexOrder = append(s.vertexOrder[:i], s.vertexOrder[i+1:]...)
			break
		}
	}

	return nil
}

func (s *NodeStore) AddEdge(sourceHash, targetHash string, edge graph.Edge[string]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.outEdges[sourceHash]; !ok {
		s.outEdges[sourceHash] = make(map[string]graph.Edge[string])
	}

	if _, ok := s.outEdges[sourceHash][targetHash]; !ok {
		s.edgeOrder = append(s.edgeOrder, edgeKey{sourceHash, targetHash})
	}

	s.outEdges[sourceHash][targetHash] = edge

	if _, ok := s.inEdges[targetHash]; !ok {
		s.inEdges[targetHash] = make(map[string]graph.Edge[string])
	}

	s.inEdges[targetHash][sourceHash] = edge

	return nil
}

// UpdateVertex applies options to the properties of the vertex k.
func (s *NodeStore) UpdateVertex(k string, options ...func(*graph.VertexProperties)) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	p, ok := s.vertexProperties[k]
	if !ok {
		return graph.ErrVertexNotFound
	}

	for _, opt := range options {
		opt(p)
	}

	return nil
}

func (s *NodeStore) UpdateEdge(sourceHash, targetHash string, edge graph.Edge[string]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.outEdges[sourceHash][targetHash]; !ok {
		return graph.ErrEdgeNotFound
	}

	s.outEdges[sourceHash][targetHash] = edge
	s.inEdges[targetHash][sourceHash] = edge

	return nil
}

func (s *NodeStore) RemoveEdge(sourceHash, targetHash string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.inEdges[targetHash], sourceHash)
	delete(s.outEdges[sourceHash], targetHash)

	for i, key := range s.edgeOrder {
		if key.source == sourceHash && key.target == targetHash {
			s.edgeOrder = append(s.edgeOrder[:i], s.edgeOrder[i+1:]...)
			break
		}
	}

	return nil
}

func (s *NodeStore) Edge(sourceHash, targetHash string) (graph.Edge[string], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	edge, ok := s.outEdges[sourceHash][targetHash]
	if !ok {
		return graph.Edge[string]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

func (s *NodeStore) ListEdges() ([]graph.Edge[string], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]graph.Edge[string], 0, len(s.edgeOrder))
	for _, key := range s.edgeOrder {
		res = append(res, s.outEdges[key.source][key.target])
	}

	return res, nil
}

// CreatesCycle reports whether an edge from source to target would close a cycle. It walks
// inEdges from source looking for target, which avoids building a predecessor map.
func (s *NodeStore) CreatesCycle(source, target string) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if _, _, err := s.vertex(source); err != nil {
		return false, errors.Wrapf(err, "could not get vertex with hash %v", source)
	}

	if _, _, err := s.vertex(target); err != nil {
		return false, errors.Wrapf(err, "could not get vertex with hash %v", target)
	}

	if source == target {
		return true, nil
	}

	stack := []string{source}
	visited := make(map[string]struct{})

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[current]; ok {
			continue
		}

		if current == target {
			return true, nil
		}

		visited[current] = struct{}{}

		for adjacency := range s.inEdges[current] {
			stack = append(stack, adjacency)
		}
	}

	return false, nil
}

var _ graph.Store[string, model.Node] = (*NodeStore)(nil)
