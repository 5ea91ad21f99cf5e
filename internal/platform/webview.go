package platform

import (
	webview "github.com/webview/webview_go"

	"savebridge/internal/logx"
)

// Webview hosts the UI in a webview_go window.
type Webview struct {
	wv webview.WebView
}

// NewWebview creates the host window. debug enables the devtools surface.
func NewWebview(title string, width, height int, debug bool) *Webview {
	wv := webview.New(debug)
	wv.SetTitle(title)
	wv.SetSize(width, height, webview.HintNone)
	return &Webview{wv: wv}
}

// SetVisible implements Window. The webview is created visible; hiding is
// not exposed by webview_go, so only the initial reveal is meaningful.
func (w *Webview) SetVisible(visible bool) {}

// Minimize implements Window. webview_go exposes no native window handle;
// a richer platform backend can supply the real call.
func (w *Webview) Minimize() {
	logx.Log.Debug().Msg("minimize not supported by this backend")
}

// ToggleMaximize implements Window.
func (w *Webview) ToggleMaximize() {
	logx.Log.Debug().Msg("maximize not supported by this backend")
}

// StartDrag implements Window.
func (w *Webview) StartDrag() {
	logx.Log.Debug().Msg("drag not supported by this backend")
}

// Eval implements Window. The script runs on the webview's own thread.
func (w *Webview) Eval(script string) {
	w.wv.Dispatch(func() {
		w.wv.Eval(script)
	})
}

// Navigate implements Window.
func (w *Webview) Navigate(url string) {
	w.wv.Navigate(url)
}

// Run implements Window.
func (w *Webview) Run() {
	w.wv.Run()
}

// Terminate implements Window.
func (w *Webview) Terminate() {
	w.wv.Dispatch(func() {
		w.wv.Terminate()
	})
}
