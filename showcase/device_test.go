package showcase

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
)

func TestDeviceIDRoundTrip(t *testing.T) {
	ids := []DeviceID{
		{Manufacturer: "apple", Type: "phone", Model: "iphone_15_pro", Year: 2023},
		{Manufacturer: "apple", Type: "phone", Model: "iphone-15-pro", Year: 2023},
		{Manufacturer: "google", Type: "tablet", Model: "pixel"},
		{Manufacturer: "acme", Type: "watch", Model: "x1-2024b"},
		{Manufacturer: "a", Type: "b", Model: "c", Year: 1000},
		{Manufacturer: "samsung", Type: "phone", Model: "s24-ultra", Year: 9999},
		{Manufacturer: "nokia", Type: "phone", Model: "3310-0123"},
	}
	for _, id := range ids {
		s := id.String()
		got, err := ParseDeviceID(s)
		if err != nil {
			t.Errorf("ParseDeviceID(%q): %v", s, err)
			continue
		}
		if got != id {
			t.Errorf("%q decoded to %+v, want %+v", s, got, id)
		}
	}
}

func TestParseDeviceID(t *testing.T) {
	got, err := ParseDeviceID("apple/phone-iphone-15-pro-2023")
	if err != nil {
		t.Fatalf("ParseDeviceID: %v", err)
	}
	want := DeviceID{Manufacturer: "apple", Type: "phone", Model: "iphone-15-pro", Year: 2023}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestParseDeviceIDRejects(t *testing.T) {
	bad := []string{
		"",
		"apple",
		"apple/phone",
		"apple/-x",
		"/phone-x",
		"Apple/phone-x",
		"apple/phone-x y",
		"apple/phone-x--y",
		"apple/phone-x-",
		"apple/phone-2023",
		"apple/phone/x-y",
	}
	for _, s := range bad {
		if _, err := ParseDeviceID(s); !errors.Is(err, ErrInvalidDeviceID) {
			t.Errorf("ParseDeviceID(%q): expected ErrInvalidDeviceID, got %v", s, err)
		}
	}
}

func TestDeviceIDValidate(t *testing.T) {
	tests := []DeviceID{
		{Manufacturer: "acme", Type: "phone", Model: "one-2020"},
		{Manufacturer: "acme", Type: "phone", Model: "one", Year: 999},
		{Manufacturer: "acme", Type: "phone-x", Model: "one"},
		{Manufacturer: "acme", Type: "phone", Model: ""},
	}
	for _, id := range tests {
		if err := id.Validate(); !errors.Is(err, ErrInvalidDeviceID) {
			t.Errorf("%+v: expected ErrInvalidDeviceID, got %v", id, err)
		}
	}
}

func TestDeviceIDModelPath(t *testing.T) {
	id := DeviceID{Manufacturer: "acme", Type: "phone", Model: "one", Year: 2024}
	want := filepath.Join("models", "acme", "phone-one-2024.glb")
	if got := id.ModelPath("models"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDeviceIDJSON(t *testing.T) {
	var v struct {
		Device DeviceID `json:"device"`
	}
	if err := json.Unmarshal([]byte(`{"device":"acme/phone-one-2024"}`), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.Device.Year != 2024 || v.Device.Model != "one" {
		t.Errorf("unexpected id %+v", v.Device)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"device":"acme/phone-one-2024"}` {
		t.Errorf("unexpected encoding %s", b)
	}
	if err := json.Unmarshal([]byte(`{"device":"nope"}`), &v); !errors.Is(err, ErrInvalidDeviceID) {
		t.Errorf("expected ErrInvalidDeviceID, got %v", err)
	}
}
