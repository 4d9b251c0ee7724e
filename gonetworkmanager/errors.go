package gonetworkmanager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

var (
	// ErrTransport means the system bus or NetworkManager could not be reached.
	ErrTransport = errors.New("networkmanager: bus unreachable")
	// ErrNotInitialized is returned by a Session that holds no client.
	ErrNotInitialized = errors.New("networkmanager: client not initialized")
	// ErrUnsupportedSecurity is returned for security types the settings builder cannot express.
	ErrUnsupportedSecurity = errors.New("unsupported security type")
	// ErrPermissionDenied matches remote PermissionDenied errors.
	ErrPermissionDenied = errors.New("permission denied")
)

// OperationError is a failed remote call. Message carries the text
// NetworkManager returned.
type OperationError struct {
	Op      string
	Name    string
	Message string
}

func (e *OperationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s failed: %s (%s)", e.Op, e.Message, e.Name)
}

func (e *OperationError) Is(target error) bool {
	return target == ErrPermissionDenied && e.Name == errNamePermissionDenied
}

// remoteError unpacks an error sent back by the remote side.
func remoteError(err error) (name, message string, ok bool) {
	var val dbus.Error
	if errors.As(err, &val) {
		return val.Name, errorBody(val), true
	}
	var ptr *dbus.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Name, errorBody(*ptr), true
	}
	return "", "", false
}

func errorBody(e dbus.Error) string {
	parts := make([]string, 0, len(e.Body))
	for _, b := range e.Body {
		if s, ok := b.(string); ok {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return e.Name
	}
	return strings.Join(parts, "; ")
}

// wrapCallError turns a bus error into an OperationError when the remote
// side answered, and into ErrTransport otherwise.
func wrapCallError(op string, err error) error {
	if err == nil {
		return nil
	}
	if name, msg, ok := remoteError(err); ok {
		return &OperationError{Op: op, Name: name, Message: msg}
	}
	if errors.Is(err, ErrTransport) || errors.Is(err, ErrUnsupportedSecurity) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
}
