package recipients

import (
	"fmt"
	"strings"
)

// Directory maps normalized employee names to email addresses.
type Directory map[string]string

// Normalize trims and lower-cases a display name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewDirectory builds a directory from display names, normalizing the keys.
// Entries without an address are dropped and later duplicates win.
func NewDirectory(entries map[string]string) Directory {
	dir := make(Directory, len(entries))
	for name, email := range entries {
		dir.Add(name, email)
	}
	return dir
}

func (d Directory) Add(name, email string) {
	key := Normalize(name)
	email = strings.TrimSpace(email)
	if key == "" || email == "" {
		return
	}
	d[key] = email
}

// Resolver looks up recipients by exact normalized name. The directory is
// read-only once the resolver is built.
type Resolver struct {
	dir Directory
}

func NewResolver(dir Directory) *Resolver {
	copied := make(Directory, len(dir))
	for k, v := range dir {
		copied[k] = v
	}
	return &Resolver{dir: copied}
}

func (r *Resolver) Resolve(name string) (string, error) {
	email, ok := r.dir[Normalize(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(name))
	}
	return email, nil
}

func (r *Resolver) Len() int {
	return len(r.dir)
}
