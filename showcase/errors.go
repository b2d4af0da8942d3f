package showcase

import (
	"errors"
	"fmt"
)

var (
	// ErrAssetLoad is wrapped by every model or texture load failure.
	ErrAssetLoad = errors.New("asset load failed")

	// ErrDegenerateGeometry reports a model whose bounding box has no extent.
	ErrDegenerateGeometry = errors.New("degenerate model geometry")

	// ErrMissingScreenMesh is reported through the logger when a model has no
	// part named "screen". It never fails construction.
	ErrMissingScreenMesh = errors.New("model has no screen mesh")

	// ErrInvalidInput marks a caller contract violation: out-of-range FOV,
	// non-positive mass, non-finite tilt and the like.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidDeviceID = errors.New("invalid device id")
)

// AssetKind names what an AssetError failed to load.
type AssetKind string

const (
	AssetModel   AssetKind = "model"
	AssetTexture AssetKind = "texture"
)

// AssetError is returned when the model or the screenshot cannot be loaded.
type AssetError struct {
	Kind    AssetKind
	Locator string
	Err     error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Kind, e.Locator, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

func (e *AssetError) Is(target error) bool { return target == ErrAssetLoad }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
