// Package dialog shows native file pickers.
package dialog

import (
	"fmt"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Filter is one file-type filter group. On the wire it is a two-element
// array [name, [extensions]], matching the UI contract.
type Filter struct {
	Name       string
	Extensions []string
}

// MarshalJSON renders the pair-array wire form.
func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{f.Name, f.Extensions})
}

// UnmarshalJSON parses the pair-array wire form.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var pair []jsontext.Value
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("filter must be [name, extensions], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &f.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &f.Extensions)
}

// Params configures a save-file picker.
type Params struct {
	Path    string   `json:"path"`
	Filters []Filter `json:"filters"`
}

// Service is the file-picker contract consumed by the RPC handlers. Every
// method returns the chosen path, or ok=false when the user cancels.
// Cancellation is not an error.
type Service interface {
	OpenSave(lastDir bool) (path string, ok bool, err error)
	SaveSave(p Params) (path string, ok bool, err error)
	ImportHeadMorph() (path string, ok bool, err error)
	ExportHeadMorph() (path string, ok bool, err error)
}

func (f Filter) pattern() string {
	globs := make([]string, 0, len(f.Extensions))
	for _, ext := range f.Extensions {
		globs = append(globs, "*."+strings.TrimPrefix(ext, "."))
	}
	return f.Name + " | " + strings.Join(globs, " ")
}
