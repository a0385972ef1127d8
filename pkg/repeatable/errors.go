package repeatable

import "errors"

var (
	// ErrUnknownGroup reports an operation on a group never passed to Initialize.
	ErrUnknownGroup = errors.New("repeatable: unknown group")
	// ErrTemplateNotFound reports a group whose template element is absent.
	ErrTemplateNotFound = errors.New("repeatable: template not found")
	// ErrContainerNotFound reports a group whose container element is absent.
	ErrContainerNotFound = errors.New("repeatable: container not found")
	// ErrStaleReference reports a node that is no longer part of the document.
	ErrStaleReference = errors.New("repeatable: stale reference")
	// ErrNotAnInstance reports a node that is not inside any field instance.
	ErrNotAnInstance = errors.New("repeatable: node is not inside a field instance")
)
