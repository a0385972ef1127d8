package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/repeatable"
)

// OperationKind enumerates the row operations a session can replay.
type OperationKind string

const (
	OperationAdd      OperationKind = "add"
	OperationRemove   OperationKind = "remove"
	OperationPopulate OperationKind = "populate"
)

// Operation is one user action against a field group. Index addresses an
// existing instance for remove and populate. When Node is set it takes
// precedence over Index, so rows sharing an index (or reporting -1) can
// still be targeted exactly.
type Operation struct {
	Kind  OperationKind
	Group string
	Index int
	Node  *html.Node
}

func (op Operation) String() string {
	if op.Kind == OperationAdd {
		return string(op.Kind) + " " + op.Group
	}
	return fmt.Sprintf("%s %s:%d", op.Kind, op.Group, op.Index)
}

// Add returns an add operation for group.
func Add(group string) Operation {
	return Operation{Kind: OperationAdd, Group: group}
}

// Remove returns a remove operation for the instance of group at index.
func Remove(group string, index int) Operation {
	return Operation{Kind: OperationRemove, Group: group, Index: index}
}

// RemoveInstance returns a remove operation bound to the instance node.
func RemoveInstance(inst repeatable.Instance) Operation {
	return Operation{Kind: OperationRemove, Group: inst.Group, Index: inst.Index, Node: inst.Node}
}

// Populate returns an operation refreshing the selects of one instance.
func Populate(group string, index int) Operation {
	return Operation{Kind: OperationPopulate, Group: group, Index: index}
}

// ParseTarget splits a GROUP:INDEX reference such as "events:2".
func ParseTarget(raw string) (string, int, error) {
	group, rawIndex, ok := strings.Cut(strings.TrimSpace(raw), ":")
	group = strings.TrimSpace(group)
	if !ok || group == "" {
		return "", 0, fmt.Errorf("orchestrator: target %q must look like GROUP:INDEX", raw)
	}
	index, err := strconv.Atoi(strings.TrimSpace(rawIndex))
	if err != nil || index < 0 {
		return "", 0, fmt.Errorf("orchestrator: target %q has an invalid index", raw)
	}
	return group, index, nil
}

// Outcome reports what an operation did. Index is the index assigned by an
// add, or the targeted index otherwise.
type Outcome struct {
	Operation Operation
	Index     int
	Applied   bool
	Changed   int
	Err       error
}
