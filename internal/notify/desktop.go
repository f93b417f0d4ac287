package notify

import (
	"errors"
	"fmt"
	"sync"

	"github.com/matheus3301/modernchat/internal/bus"
)

// Permission is the desktop notification permission state.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ErrPermissionDenied is returned when notifications are not allowed.
var ErrPermissionDenied = errors.New("notify: desktop permission denied")

// ParsePermission maps a config value to a Permission.
func ParsePermission(s string) (Permission, error) {
	switch p := Permission(s); p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return p, nil
	case "":
		return PermissionDefault, nil
	default:
		return "", fmt.Errorf("unknown desktop permission %q", s)
	}
}

// Notice is the payload of a notice.desktop event.
type Notice struct {
	Title string
	Body  string
}

// BusDesktop delivers desktop notices as bus events for the UI to show.
// While permission is still default, the first notice asks once and the
// configured answer is remembered.
type BusDesktop struct {
	mu         sync.Mutex
	bus        *bus.Bus
	permission Permission
	grant      bool
}

// NewBusDesktop creates a BusDesktop starting at perm. grant is the
// answer given when permission is requested.
func NewBusDesktop(b *bus.Bus, perm Permission, grant bool) *BusDesktop {
	return &BusDesktop{bus: b, permission: perm, grant: grant}
}

// Permission returns the current permission state.
func (d *BusDesktop) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permission
}

// RequestPermission resolves a default permission to granted or denied.
func (d *BusDesktop) RequestPermission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.permission == PermissionDefault {
		if d.grant {
			d.permission = PermissionGranted
		} else {
			d.permission = PermissionDenied
		}
	}
	return d.permission
}

func (d *BusDesktop) Notify(title, body string) error {
	if d.RequestPermission() != PermissionGranted {
		return ErrPermissionDenied
	}
	d.bus.Publish(bus.NewEvent(bus.KindNoticeDesktop, Notice{Title: title, Body: body}))
	return nil
}
