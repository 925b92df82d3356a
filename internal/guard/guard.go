// Package guard implements the resource-ownership check shared by every
// mutate/delete endpoint. One descriptor per protected entity type replaces
// the per-entity copies such checks otherwise accumulate.
package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/videotube/backend/internal/repositories"
)

var (
	// ErrInvalidID indicates the request parameter was missing or not a
	// well-formed identifier.
	ErrInvalidID = errors.New("invalid resource identifier")
	// ErrNotFound indicates no resource exists under the identifier.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden indicates the caller is not the resource's owner.
	ErrForbidden = errors.New("caller does not own this resource")
)

// Owned is the only capability the guard needs from an entity: a readable
// owner field.
type Owned interface {
	OwnerID() string
}

// ParamSource supplies named request parameters. *http.Request satisfies it.
type ParamSource interface {
	PathValue(name string) string
}

// Descriptor parameterizes the guard over an entity type: the resource name
// used in errors, the request parameter carrying its identifier, and a
// fetch-by-id capability.
type Descriptor[T Owned] struct {
	Resource string
	Param    string
	Fetch    func(ctx context.Context, id string) (T, error)
}

// Authorize checks that the caller owns the resource named by the request
// parameter. On success it returns the fetched resource so the calling
// operation does not fetch it again. The check is read-only and never cached:
// every call reflects the latest committed owner.
func (d Descriptor[T]) Authorize(ctx context.Context, params ParamSource, callerID string) (T, error) {
	var zero T

	id, err := Canonical(params.PathValue(d.Param))
	if err != nil {
		return zero, fmt.Errorf("%s id: %w", d.Resource, ErrInvalidID)
	}

	caller, err := Canonical(callerID)
	if err != nil {
		return zero, fmt.Errorf("%s: caller identity: %w", d.Resource, ErrForbidden)
	}

	resource, err := d.Fetch(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return zero, fmt.Errorf("%s %s: %w", d.Resource, id, ErrNotFound)
		}
		return zero, fmt.Errorf("fetch %s %s: %w", d.Resource, id, err)
	}

	// Owners are compared by canonical value, not raw string, so formatting
	// differences in stored identifiers cannot leak authorization.
	owner, err := Canonical(resource.OwnerID())
	if err != nil || owner != caller {
		return zero, fmt.Errorf("%s %s: %w", d.Resource, id, ErrForbidden)
	}

	return resource, nil
}

// Canonical normalizes an identifier to its canonical UUID string form,
// rejecting anything malformed or empty.
func Canonical(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("parse identifier: %w", err)
	}
	return parsed.String(), nil
}
