package showcase

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// DeviceID identifies a device model as manufacturer/type-model[-year], for
// example "apple/phone-iphone-15-pro-2023". The string form doubles as the
// model's path below the models root.
type DeviceID struct {
	Manufacturer string
	Type         string
	Model        string
	Year         int // 0 when absent, otherwise 1000..9999
}

// String encodes the id. It is the inverse of ParseDeviceID for every id that
// passes Validate.
func (d DeviceID) String() string {
	s := d.Manufacturer + "/" + d.Type + "-" + d.Model
	if d.Year != 0 {
		s += "-" + strconv.Itoa(d.Year)
	}
	return s
}

// Validate checks the component grammar. Components use lowercase ASCII
// letters, digits and '_'. The model may hold inner '-' separators, but its
// last segment cannot be four digits, since that would decode as a year.
func (d DeviceID) Validate() error {
	if !isToken(d.Manufacturer) {
		return fmt.Errorf("%w: manufacturer %q", ErrInvalidDeviceID, d.Manufacturer)
	}
	if !isToken(d.Type) {
		return fmt.Errorf("%w: type %q", ErrInvalidDeviceID, d.Type)
	}
	segs := strings.Split(d.Model, "-")
	for _, s := range segs {
		if !isToken(s) {
			return fmt.Errorf("%w: model %q", ErrInvalidDeviceID, d.Model)
		}
	}
	if isYear(segs[len(segs)-1]) {
		return fmt.Errorf("%w: model %q ends in a year-like segment", ErrInvalidDeviceID, d.Model)
	}
	if d.Year != 0 && (d.Year < 1000 || d.Year > 9999) {
		return fmt.Errorf("%w: year %d is not four digits", ErrInvalidDeviceID, d.Year)
	}
	return nil
}

// ModelPath returns where the device's model lives below root.
func (d DeviceID) ModelPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(d.String())+".glb")
}

// ParseDeviceID decodes manufacturer/type-model[-year].
func ParseDeviceID(s string) (DeviceID, error) {
	manufacturer, rest, ok := strings.Cut(s, "/")
	if !ok {
		return DeviceID{}, fmt.Errorf("%w: %q has no manufacturer", ErrInvalidDeviceID, s)
	}
	typ, model, ok := strings.Cut(rest, "-")
	if !ok {
		return DeviceID{}, fmt.Errorf("%w: %q has no model", ErrInvalidDeviceID, s)
	}

	d := DeviceID{Manufacturer: manufacturer, Type: typ, Model: model}
	if i := strings.LastIndexByte(model, '-'); i >= 0 && isYear(model[i+1:]) {
		d.Model = model[:i]
		d.Year, _ = strconv.Atoi(model[i+1:])
	}
	if err := d.Validate(); err != nil {
		return DeviceID{}, err
	}
	return d, nil
}

// MarshalText lets DeviceID sit in JSON config files as a plain string.
func (d DeviceID) MarshalText() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return []byte(d.String()), nil
}

func (d *DeviceID) UnmarshalText(b []byte) error {
	id, err := ParseDeviceID(string(b))
	if err != nil {
		return err
	}
	*d = id
	return nil
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}
	return true
}

func isYear(s string) bool {
	if len(s) != 4 || s[0] == '0' {
		return false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
