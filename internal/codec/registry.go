package codec

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound reports a codec id that is not present in the registry.
var ErrNotFound = errors.New("codec profile not found")

// Profile describes how one codec is produced.
type Profile struct {
	ID          string
	Extension   string
	EncoderArgs []string
}

// Validate reports whether the profile is usable by the command builder.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("codec profile id must be set")
	}
	if p.ID != strings.TrimSpace(p.ID) {
		return fmt.Errorf("codec profile %q: id must not contain surrounding whitespace", p.ID)
	}
	if len(p.Extension) < 2 || !strings.HasPrefix(p.Extension, ".") {
		return fmt.Errorf("codec profile %q: extension %q must start with a dot", p.ID, p.Extension)
	}
	for i, arg := range p.EncoderArgs {
		if strings.TrimSpace(arg) == "" {
			return fmt.Errorf("codec profile %q: encoder argument %d is empty", p.ID, i)
		}
	}
	return nil
}

// VideoEncoder returns the value of the last -c:v (or -codec:v, -vcodec)
// argument, or "" when the profile does not name one.
func (p Profile) VideoEncoder() string {
	encoder := ""
	for i := 0; i+1 < len(p.EncoderArgs); i++ {
		switch p.EncoderArgs[i] {
		case "-c:v", "-codec:v", "-vcodec":
			encoder = p.EncoderArgs[i+1]
		}
	}
	return encoder
}

func (p Profile) clone() Profile {
	p.EncoderArgs = append([]string(nil), p.EncoderArgs...)
	return p
}

// Registry is a read-only table of codec profiles keyed by id.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry builds a registry from the provided profiles. Duplicate ids and
// invalid profiles are rejected.
func NewRegistry(profiles ...Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.profiles[p.ID]; exists {
			return nil, fmt.Errorf("codec profile %q registered twice", p.ID)
		}
		r.profiles[p.ID] = p.clone()
	}
	return r, nil
}

// Builtin returns the codec profiles shipped with vidladder.
func Builtin() []Profile {
	return []Profile{
		{
			ID:          "h265",
			Extension:   ".mp4",
			EncoderArgs: []string{"-c:v", "libx265", "-preset", "fast", "-c:a", "aac", "-b:a", "128k"},
		},
		{
			ID:          "vp8",
			Extension:   ".webm",
			EncoderArgs: []string{"-c:v", "libvpx", "-c:a", "libvorbis"},
		},
		{
			ID:          "vp9",
			Extension:   ".webm",
			EncoderArgs: []string{"-c:v", "libvpx-vp9", "-c:a", "libvorbis"},
		},
		{
			ID:          "av1",
			Extension:   ".mp4",
			EncoderArgs: []string{"-c:v", "libaom-av1", "-strict", "experimental"},
		},
	}
}

// DefaultRegistry returns a registry populated with the builtin profiles.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(fmt.Sprintf("builtin codec profiles invalid: %v", err))
	}
	return r
}

// With returns a new registry holding the current profiles plus extra.
// Extra profiles replace existing entries with the same id.
func (r *Registry) With(extra ...Profile) (*Registry, error) {
	next := &Registry{profiles: make(map[string]Profile, r.Len()+len(extra))}
	if r != nil {
		for id, p := range r.profiles {
			next.profiles[id] = p
		}
	}
	for _, p := range extra {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		next.profiles[p.ID] = p.clone()
	}
	return next, nil
}

// Lookup returns the profile registered under id.
func (r *Registry) Lookup(id string) (Profile, error) {
	if r == nil {
		return Profile{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p.clone(), nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	if r == nil {
		return false
	}
	_, ok := r.profiles[id]
	return ok
}

// IDs returns the registered codec ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Profiles returns copies of every profile ordered by id.
func (r *Registry) Profiles() []Profile {
	ids := r.IDs()
	out := make([]Profile, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.profiles[id].clone())
	}
	return out
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.profiles)
}
