package persist

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/multierr"

	"github.com/matheus3301/modernchat/internal/store"
)

type settings struct {
	Theme    string `json:"theme"`
	FontSize int    `json:"fontSize"`
	Sound    bool   `json:"soundEffects"`
}

type sized struct {
	Size int `json:"size"`
}

func (s *sized) Validate() error {
	if s.Size <= 0 {
		return errors.New("size must be positive")
	}
	return nil
}

// failingBackend wraps a Memory backend and fails writes to chosen keys.
type failingBackend struct {
	*store.Memory
	failSet map[string]bool
}

func (f *failingBackend) Set(key string, value []byte) error {
	if f.failSet[key] {
		return errors.New("disk full")
	}
	return f.Memory.Set(key, value)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := New(store.NewMemory(), 0, nil)
	in := settings{Theme: "dark", FontSize: 18, Sound: true}
	if err := a.Save(KeySettings, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	var out settings
	found, err := a.Load(KeySettings, &out)
	if err != nil || !found {
		t.Fatalf("Load() = %v, %v", found, err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("Load() = %+v, want %+v", out, in)
	}
}

func TestLoadMissing(t *testing.T) {
	a := New(store.NewMemory(), 0, nil)
	var out settings
	found, err := a.Load(KeyContacts, &out)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found {
		t.Error("Load() found = true for missing key")
	}
}

func TestLoadCorrupt(t *testing.T) {
	mem := store.NewMemory()
	_ = mem.Set(KeyChats, []byte("{not json"))
	a := New(mem, 0, nil)

	var out []any
	found, err := a.Load(KeyChats, &out)
	if found {
		t.Error("Load() found = true for corrupt data")
	}
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("Load() error = %v, want *StorageError", err)
	}
	if se.Key != KeyChats || se.Op != "load" {
		t.Errorf("StorageError = %+v", se)
	}
	if !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("error does not wrap ErrDecodeFailed: %v", err)
	}
}

func TestLoadRunsValidator(t *testing.T) {
	mem := store.NewMemory()
	_ = mem.Set("sized", []byte(`{"size":0}`))
	a := New(mem, 0, nil)

	var out sized
	found, err := a.Load("sized", &out)
	if found || !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("Load() = %v, %v; want invalid data rejected", found, err)
	}
}

func TestSaveEncodeFailure(t *testing.T) {
	a := New(store.NewMemory(), 0, nil)
	err := a.Save("bad", map[string]any{"ch": make(chan int)})
	if !errors.Is(err, ErrEncodeFailed) {
		t.Errorf("Save() error = %v, want ErrEncodeFailed", err)
	}
}

func TestQuotaExceededKeepsPriorValue(t *testing.T) {
	a := New(store.NewMemory(), 64, nil)
	if err := a.Save(KeyChats, []string{"a"}); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	big := make([]string, 40)
	for i := range big {
		big[i] = "message"
	}
	err := a.Save(KeyChats, big)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Save() error = %v, want ErrQuotaExceeded", err)
	}

	var out []string
	found, err := a.Load(KeyChats, &out)
	if err != nil || !found {
		t.Fatalf("Load() = %v, %v", found, err)
	}
	if !reflect.DeepEqual(out, []string{"a"}) {
		t.Errorf("prior value = %v, want [a]", out)
	}
}

func TestQuotaCountsReplacedValueOnce(t *testing.T) {
	// "k" + `"xxxxxxxx"` is 11 bytes; overwriting it with a value of the
	// same size must fit in a quota of 11.
	a := New(store.NewMemory(), 11, nil)
	if err := a.Save("k", "xxxxxxxx"); err != nil {
		t.Fatal(err)
	}
	if err := a.Save("k", "yyyyyyyy"); err != nil {
		t.Errorf("same-size overwrite error = %v", err)
	}
}

func TestSaveBackendFailure(t *testing.T) {
	fb := &failingBackend{Memory: store.NewMemory(), failSet: map[string]bool{KeyContacts: true}}
	a := New(fb, 0, nil)
	err := a.Save(KeyContacts, []string{})
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "save" {
		t.Errorf("Save() error = %v, want save StorageError", err)
	}
}

func TestSaveAllBestEffort(t *testing.T) {
	fb := &failingBackend{Memory: store.NewMemory(), failSet: map[string]bool{KeyContacts: true}}
	a := New(fb, 0, nil)

	err := a.SaveAll([]Entry{
		{KeyCurrentUser, map[string]string{"id": "u1"}},
		{KeyContacts, []string{}},
		{KeyChats, []string{}},
		{KeySettings, settings{Theme: "light"}},
	})
	if err == nil {
		t.Fatal("SaveAll() error = nil, want contacts failure")
	}
	if n := len(multierr.Errors(err)); n != 1 {
		t.Errorf("SaveAll() combined %d errors, want 1", n)
	}
	for _, k := range []string{KeyCurrentUser, KeyChats, KeySettings} {
		if _, err := fb.Get(k); err != nil {
			t.Errorf("%s not written: %v", k, err)
		}
	}
}

func TestRemoveAndClear(t *testing.T) {
	a := New(store.NewMemory(), 0, nil)
	_ = a.Save(KeyCurrentUser, "u")
	_ = a.Save(ProfileKey("u"), "p")
	_ = a.Save(KeyChats, "c")

	if err := a.Remove(KeyCurrentUser); err != nil {
		t.Fatal(err)
	}
	var s string
	if found, _ := a.Load(KeyCurrentUser, &s); found {
		t.Error("currentUser still present after Remove")
	}
	if err := a.Remove("missing"); err != nil {
		t.Errorf("Remove(missing) error = %v", err)
	}

	if err := a.Clear(); err != nil {
		t.Fatal(err)
	}
	if n, _ := a.Usage(); n != 0 {
		t.Errorf("Usage() after Clear = %d, want 0", n)
	}
}

func TestProfileKey(t *testing.T) {
	if got := ProfileKey("42"); got != "user_42" {
		t.Errorf("ProfileKey(42) = %q, want user_42", got)
	}
}
