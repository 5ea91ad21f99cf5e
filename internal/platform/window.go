// Package platform abstracts the native window hosting the UI.
package platform

// Window is the surface the bridge drives. Chrome operations are single
// OS calls with no observable result; Eval injects script into the UI's
// context.
type Window interface {
	SetVisible(visible bool)
	Minimize()
	ToggleMaximize()
	StartDrag()
	Eval(script string)
	Navigate(url string)
	// Run blocks on the window's event loop until Terminate.
	Run()
	Terminate()
}
