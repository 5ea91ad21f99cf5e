package savefile

import (
	"io"
	"os"
	"path/filepath"

	"savebridge/internal/fault"
	"savebridge/internal/logx"
)

// BackupSuffix is appended to the destination's extension when an existing
// file is preserved before an overwrite. `save.ext` backs up to
// `save.ext.bak`; the backup is a single generation, replaced on every save.
const BackupSuffix = ".bak"

// Gateway loads and saves envelopes against the local filesystem.
type Gateway struct{}

// NewGateway creates a file gateway.
func NewGateway() *Gateway {
	return &Gateway{}
}

// Load reads the file at path and returns it as an envelope. The path is
// canonicalized first (symlinks and relative segments resolved) and the
// envelope carries the canonical form, so a later Save targets the same
// resolved location.
func (g *Gateway) Load(path string) (*Envelope, error) {
	canonical, err := canonicalize(path)
	if err != nil {
		return nil, fault.Wrap(fault.NotFound, err, "cannot resolve %s", path)
	}
	data, err := os.ReadFile(canonical)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.Wrap(fault.NotFound, err, "no file at %s", canonical)
		}
		return nil, fault.Wrap(fault.IO, err, "cannot read %s", canonical)
	}
	logx.Log.Debug().Str("path", canonical).Int("bytes", len(data)).Msg("loaded file")
	return &Envelope{Path: canonical, File: Encode(data)}, nil
}

// Save decodes the envelope payload and overwrites its path with the
// result. When the destination already exists and has an extension, the
// prior content is first copied to a sibling backup (extension + ".bak").
//
// The final write is a plain overwrite, not an atomic rename: a crash
// mid-write can leave a partially written destination. The backup taken
// just before is the recovery path.
func (g *Gateway) Save(env *Envelope) error {
	data, err := env.File.Decode()
	if err != nil {
		return err
	}
	if err := backupExisting(env.Path); err != nil {
		return err
	}
	if err := os.WriteFile(env.Path, data, 0o644); err != nil {
		return fault.Wrap(fault.IO, err, "cannot write %s", env.Path)
	}
	logx.Log.Debug().Str("path", env.Path).Int("bytes", len(data)).Msg("saved file")
	return nil
}

// backupExisting copies path to its backup sibling when path exists and
// has a file-extension component. Extensionless destinations are never
// backed up.
func backupExisting(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	ext := filepath.Ext(path)
	if ext == "" {
		return nil
	}
	if err := copyFile(path, path+BackupSuffix); err != nil {
		return fault.Wrap(fault.IO, err, "cannot back up %s", path)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// canonicalize resolves relative segments and symlinks. The target must
// exist for resolution to succeed.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
