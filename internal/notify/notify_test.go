package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/matheus3301/modernchat/internal/bus"
)

type fakePlayer struct {
	plays int
	err   error
}

func (p *fakePlayer) Play() error {
	p.plays++
	return p.err
}

type fakeDesktop struct {
	titles []string
	err    error
}

func (d *fakeDesktop) Notify(title, body string) error {
	d.titles = append(d.titles, title)
	return d.err
}

func TestDispatcherAlert(t *testing.T) {
	tests := []struct {
		name       string
		alert      Alert
		wantPlays  int
		wantNotify int
	}{
		{"both", Alert{Sound: true, Desktop: true, Title: "Message sent"}, 1, 1},
		{"sound only", Alert{Sound: true}, 1, 0},
		{"desktop only", Alert{Desktop: true, Title: "t"}, 0, 1},
		{"neither", Alert{}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePlayer{}
			d := &fakeDesktop{}
			NewDispatcher(p, d, nil).Alert(tt.alert)
			if p.plays != tt.wantPlays {
				t.Errorf("plays = %d, want %d", p.plays, tt.wantPlays)
			}
			if len(d.titles) != tt.wantNotify {
				t.Errorf("notifications = %d, want %d", len(d.titles), tt.wantNotify)
			}
		})
	}
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	p := &fakePlayer{err: errors.New("no audio")}
	d := &fakeDesktop{err: errors.New("no display")}
	NewDispatcher(p, d, nil).Alert(Alert{Sound: true, Desktop: true})
	if p.plays != 1 || len(d.titles) != 1 {
		t.Errorf("plays = %d, notifications = %d; want both attempted", p.plays, len(d.titles))
	}
}

func TestDispatcherNil(t *testing.T) {
	var d *Dispatcher
	d.Alert(Alert{Sound: true})
	NewDispatcher(nil, nil, nil).Alert(Alert{Sound: true, Desktop: true})
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	if err := NewBell(&buf).Play(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a" {
		t.Errorf("bell wrote %q, want BEL", buf.String())
	}
}

func TestBusDesktopPermission(t *testing.T) {
	tests := []struct {
		name      string
		start     Permission
		grant     bool
		wantErr   bool
		wantAfter Permission
	}{
		{"granted", PermissionGranted, false, false, PermissionGranted},
		{"denied", PermissionDenied, true, true, PermissionDenied},
		{"default grants on request", PermissionDefault, true, false, PermissionGranted},
		{"default denies on request", PermissionDefault, false, true, PermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bus.New()
			ch, unsub := b.Subscribe("notice.", 4)
			defer unsub()

			d := NewBusDesktop(b, tt.start, tt.grant)
			err := d.Notify("Message sent", "Your message has been delivered")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Notify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if d.Permission() != tt.wantAfter {
				t.Errorf("Permission() = %s, want %s", d.Permission(), tt.wantAfter)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrPermissionDenied) {
					t.Errorf("error = %v, want ErrPermissionDenied", err)
				}
				return
			}
			evt := <-ch
			notice, ok := evt.Payload.(Notice)
			if !ok || notice.Title != "Message sent" {
				t.Errorf("event = %+v, want Message sent notice", evt)
			}
		})
	}
}

func TestParsePermission(t *testing.T) {
	for _, s := range []string{"default", "granted", "denied", ""} {
		if _, err := ParsePermission(s); err != nil {
			t.Errorf("ParsePermission(%q) error = %v", s, err)
		}
	}
	if _, err := ParsePermission("maybe"); err == nil {
		t.Error("ParsePermission(maybe) expected error")
	}
}
