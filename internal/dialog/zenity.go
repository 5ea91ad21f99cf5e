package dialog

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"savebridge/internal/fault"
)

var saveFilters = []Filter{
	{Name: "Save files", Extensions: []string{"pcsav", "MassEffectSave"}},
	{Name: "All files", Extensions: []string{"*"}},
}

var headMorphFilters = []Filter{
	{Name: "Head morph", Extensions: []string{"me3headmorph", "ron"}},
	{Name: "All files", Extensions: []string{"*"}},
}

// Zenity runs the zenity file-selection dialog. It remembers the
// directory of the last successful pick for open_save(last_dir=true).
type Zenity struct {
	mu      sync.Mutex
	lastDir string
}

// NewZenity creates a zenity-backed picker.
func NewZenity() *Zenity {
	return &Zenity{}
}

// OpenSave implements Service.
func (z *Zenity) OpenSave(lastDir bool) (string, bool, error) {
	args := []string{"--file-selection", "--title=Open save"}
	if lastDir {
		if dir := z.last(); dir != "" {
			args = append(args, "--filename="+dir+string(filepath.Separator))
		}
	}
	args = appendFilters(args, saveFilters)
	return z.pick(args)
}

// SaveSave implements Service.
func (z *Zenity) SaveSave(p Params) (string, bool, error) {
	args := []string{"--file-selection", "--save", "--confirm-overwrite", "--title=Save as"}
	if p.Path != "" {
		args = append(args, "--filename="+p.Path)
	}
	args = appendFilters(args, p.Filters)
	return z.pick(args)
}

// ImportHeadMorph implements Service.
func (z *Zenity) ImportHeadMorph() (string, bool, error) {
	args := []string{"--file-selection", "--title=Import head morph"}
	args = appendFilters(args, headMorphFilters)
	return z.pick(args)
}

// ExportHeadMorph implements Service.
func (z *Zenity) ExportHeadMorph() (string, bool, error) {
	args := []string{"--file-selection", "--save", "--confirm-overwrite", "--title=Export head morph"}
	args = appendFilters(args, headMorphFilters)
	return z.pick(args)
}

func appendFilters(args []string, filters []Filter) []string {
	for _, f := range filters {
		args = append(args, "--file-filter="+f.pattern())
	}
	return args
}

func (z *Zenity) pick(args []string) (string, bool, error) {
	out, err := exec.Command("zenity", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		// Exit status 1 is the user pressing cancel.
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, fault.Wrap(fault.External, err, "file dialog failed")
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", false, nil
	}
	z.mu.Lock()
	z.lastDir = filepath.Dir(path)
	z.mu.Unlock()
	return path, true, nil
}

func (z *Zenity) last() string {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.lastDir
}
