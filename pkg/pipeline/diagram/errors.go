package diagram

import "github.com/pkg/errors"

var (
	// ErrNoDocument is returned when a loader yields no document.
	ErrNoDocument = errors.New("no diagram document")
	// ErrInvalidNode is returned for a node without id or with an unknown type.
	ErrInvalidNode = errors.New("invalid node")
	// ErrDuplicateNode is returned when two nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrDuplicateEdge is returned when two edges share an id or connect the same handles.
	ErrDuplicateEdge = errors.New("duplicate edge")
	// ErrDanglingEdge is returned for an edge referencing an unknown node.
	ErrDanglingEdge = errors.New("edge references an unknown node")
	// ErrUnknownHandle is returned for an edge attached to a handle its node does not have.
	ErrUnknownHandle = errors.New("unknown handle")
	// ErrInvalidDirection is returned for an edge entering an input node or leaving an output node.
	ErrInvalidDirection = errors.New("invalid edge direction")
	// ErrCycle is returned when the edges form a cycle.
	ErrCycle = errors.New("diagram contains a cycle")
	// ErrUnexpectedStatus is returned by HTTPLoader for a non 200 response.
	ErrUnexpectedStatus = errors.New("unexpected status code")
)
