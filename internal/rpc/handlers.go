package rpc

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"savebridge/internal/capture"
	"savebridge/internal/dialog"
	"savebridge/internal/event"
	"savebridge/internal/fault"
	"savebridge/internal/frontapp"
	"savebridge/internal/logx"
	"savebridge/internal/platform"
	"savebridge/internal/savefile"
	"savebridge/internal/update"
)

// Event names the UI listens for.
const (
	eventUpdateAvailable    = "update_available"
	eventUpdateNotAvailable = "update_not_available"
	eventUpdateDownloaded   = "update_downloaded"
	eventUpdateError        = "update_error"
)

// Capture toggle-button captions, returned verbatim to the UI. Each is
// the label for the action that would undo the one just taken: a
// successful start returns the "stop" label, a stop returns the "start"
// label. The inversion is the button's next state, not a status report.
const (
	captionStopCapture  = "结束采集"
	captionStopOpenGame = "结束采集(请打开游戏)"
	captionStartCapture = "开始采集"
)

// StartCaptureArgs is the start_capture parameter shape.
type StartCaptureArgs struct {
	Name string `json:"name"`
}

// Deps are the collaborators the handlers act on. All of them are
// injected; nothing is reached through ambient globals.
type Deps struct {
	Window   platform.Window
	Dialogs  dialog.Service
	Updater  update.Service
	FrontApp frontapp.Inspector
	Events   event.Sender
	Capture  *capture.Channel
	Gateway  *savefile.Gateway
	// DatabaseDir anchors relative load_database paths. Empty means the
	// executable's directory.
	DatabaseDir string
	// OpenLink overrides the platform URL opener. Nil uses the default.
	OpenLink func(link string) error
}

// Handlers implements the bridge's method catalog against injected
// collaborators.
type Handlers struct {
	window   platform.Window
	dialogs  dialog.Service
	updater  update.Service
	front    frontapp.Inspector
	events   event.Sender
	capture  *capture.Channel
	gateway  *savefile.Gateway
	dbDir    string
	openLink func(string) error
}

// NewHandlers creates the handler set.
func NewHandlers(d Deps) *Handlers {
	openLink := d.OpenLink
	if openLink == nil {
		openLink = openExternal
	}
	return &Handlers{
		window:   d.Window,
		dialogs:  d.Dialogs,
		updater:  d.Updater,
		front:    d.FrontApp,
		events:   d.Events,
		capture:  d.Capture,
		gateway:  d.Gateway,
		dbDir:    d.DatabaseDir,
		openLink: openLink,
	}
}

// Routes builds the registration table. Method names are the external
// contract with the UI.
func (h *Handlers) Routes() []Route {
	return []Route{
		NotifyRoute("init", h.Init),
		NotifyRoute("minimize", h.Minimize),
		NotifyRoute("toggle_maximize", h.ToggleMaximize),
		NotifyRoute("drag_window", h.DragWindow),
		NotifyRoute("close", h.Close),

		CallRoute("check_for_update", h.CheckForUpdate),
		CallRoute("download_and_install_update", h.DownloadAndInstallUpdate),
		CallRoute("import_head_morph", h.ImportHeadMorph),
		CallRoute("export_head_morph_dialog", h.ExportHeadMorphDialog),
		CallRoute("stop_capture", h.StopCapture),
		CallRoute("get_front_app", h.GetFrontApp),

		ParamRoute("open_external_link", h.OpenExternalLink),
		ParamRoute("open_save", h.OpenSave),
		ParamRoute("save_file", h.SaveFile),
		ParamRoute("save_save_dialog", h.SaveSaveDialog),
		ParamRoute("reload_save", h.ReloadSave),
		ParamRoute("load_database", h.LoadDatabase),
		ParamRoute("start_capture", h.StartCapture),
	}
}

// OpenStartupSave loads the command-line-named save for the router's
// special case.
func (h *Handlers) OpenStartupSave(ctx context.Context, path string) (any, error) {
	return h.gateway.Load(path)
}

// Init reveals the window once the UI has finished booting.
func (h *Handlers) Init(ctx context.Context) {
	h.window.SetVisible(true)
}

func (h *Handlers) Minimize(ctx context.Context) {
	h.window.Minimize()
}

func (h *Handlers) ToggleMaximize(ctx context.Context) {
	h.window.ToggleMaximize()
}

func (h *Handlers) DragWindow(ctx context.Context) {
	h.window.StartDrag()
}

// Close asks the host to shut down. The request already in flight runs to
// completion; only the event loop's terminal state changes.
func (h *Handlers) Close(ctx context.Context) {
	h.events.Send(event.CloseWindow{})
}

// CheckForUpdate schedules an update check and returns immediately. The
// outcome arrives as an event, never as this call's response.
func (h *Handlers) CheckForUpdate(ctx context.Context) (any, error) {
	go func() {
		release, err := h.updater.Check(context.Background())
		switch {
		case err != nil:
			h.events.Send(event.Custom{Name: eventUpdateError, Detail: map[string]string{"message": err.Error()}})
		case release != nil:
			h.events.Send(event.Custom{Name: eventUpdateAvailable, Detail: release})
		default:
			h.events.Send(event.Custom{Name: eventUpdateNotAvailable, Detail: nil})
		}
	}()
	return nil, nil
}

// DownloadAndInstallUpdate schedules the download of the release found
// by the last check; the outcome arrives as an event.
func (h *Handlers) DownloadAndInstallUpdate(ctx context.Context) (any, error) {
	go func() {
		path, err := h.updater.DownloadAndInstall(context.Background())
		if err != nil {
			h.events.Send(event.Custom{Name: eventUpdateError, Detail: map[string]string{"message": err.Error()}})
			return
		}
		h.events.Send(event.Custom{Name: eventUpdateDownloaded, Detail: map[string]string{"installer": path}})
	}()
	return nil, nil
}

// ImportHeadMorph lets the user pick a head-morph file and returns its
// envelope, or null when the dialog is canceled.
func (h *Handlers) ImportHeadMorph(ctx context.Context) (any, error) {
	path, ok, err := h.dialogs.ImportHeadMorph()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return h.gateway.Load(path)
}

// ExportHeadMorphDialog returns a destination path chosen by the user, or
// null on cancel.
func (h *Handlers) ExportHeadMorphDialog(ctx context.Context) (any, error) {
	path, ok, err := h.dialogs.ExportHeadMorph()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return path, nil
}

// StopCapture unconditionally signals the worker to stop.
func (h *Handlers) StopCapture(ctx context.Context) (any, error) {
	h.capture.Send(capture.Signal{Op: capture.Stop})
	return captionStartCapture, nil
}

// GetFrontApp reports the current foreground application's name.
func (h *Handlers) GetFrontApp(ctx context.Context) (any, error) {
	return h.front.FrontAppName()
}

// OpenExternalLink hands the link to the platform opener.
func (h *Handlers) OpenExternalLink(ctx context.Context, link string) (any, error) {
	if err := h.openLink(link); err != nil {
		return nil, fault.Wrap(fault.External, err, "cannot open %s", link)
	}
	return nil, nil
}

// OpenSave shows the open-save picker and loads the chosen file; null on
// cancel. lastDir reopens the directory of the previous pick.
func (h *Handlers) OpenSave(ctx context.Context, lastDir bool) (any, error) {
	path, ok, err := h.dialogs.OpenSave(lastDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return h.gateway.Load(path)
}

// SaveFile writes an envelope back to disk.
func (h *Handlers) SaveFile(ctx context.Context, env savefile.Envelope) (any, error) {
	if err := h.gateway.Save(&env); err != nil {
		return nil, err
	}
	return nil, nil
}

// SaveSaveDialog returns a save destination chosen by the user, or null
// on cancel.
func (h *Handlers) SaveSaveDialog(ctx context.Context, p dialog.Params) (any, error) {
	path, ok, err := h.dialogs.SaveSave(p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return path, nil
}

// ReloadSave re-reads a previously opened save.
func (h *Handlers) ReloadSave(ctx context.Context, path string) (any, error) {
	return h.gateway.Load(path)
}

// LoadDatabase loads a bundled database file. Relative paths resolve
// against the configured database directory, falling back to the
// executable's own directory.
func (h *Handlers) LoadDatabase(ctx context.Context, path string) (any, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.databaseDir(), path)
	}
	return h.gateway.Load(path)
}

// StartCapture gates on a point-in-time foreground snapshot: the signal
// is sent only when the named target is frontmost. No lock spans the
// check and the send; a user switching apps in between is accepted
// best-effort behavior.
func (h *Handlers) StartCapture(ctx context.Context, args StartCaptureArgs) (any, error) {
	logx.Log.Info().Str("target", args.Name).Msg("start_capture requested")
	front, err := h.front.FrontAppName()
	if err != nil {
		return nil, err
	}
	if front != args.Name {
		return captionStopOpenGame, nil
	}
	h.capture.Send(capture.Signal{Op: capture.Start, Target: args.Name})
	return captionStopCapture, nil
}

func (h *Handlers) databaseDir() string {
	if h.dbDir != "" {
		return h.dbDir
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func openExternal(link string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", link).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", link).Start()
	default:
		return exec.Command("xdg-open", link).Start()
	}
}
