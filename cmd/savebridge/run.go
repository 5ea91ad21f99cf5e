package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"savebridge/internal/capture"
	"savebridge/internal/config"
	"savebridge/internal/dialog"
	"savebridge/internal/event"
	"savebridge/internal/frontapp"
	"savebridge/internal/logx"
	"savebridge/internal/platform"
	"savebridge/internal/rpc"
	"savebridge/internal/savefile"
	"savebridge/internal/update"
)

// run wires the bridge together and blocks on the window's event loop.
func run(cfg config.Config, startupSave string, devtools bool) error {
	logx.SetLevel(cfg.Logging.Level)

	window := platform.NewWebview(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, devtools)
	bridge := event.NewBridge(window, window.Terminate)

	signals := capture.NewChannel(cfg.Capture.QueueSize)
	inspector := frontapp.X11Inspector{}
	worker := capture.NewWorker(signals, inspector, bridge,
		time.Duration(cfg.Capture.PollIntervalMs)*time.Millisecond)

	updater := update.NewHTTPService(cfg.Update.ManifestURL, Version,
		time.Duration(cfg.Update.TimeoutSeconds)*time.Second)

	handlers := rpc.NewHandlers(rpc.Deps{
		Window:      window,
		Dialogs:     dialog.NewZenity(),
		Updater:     updater,
		FrontApp:    inspector,
		Events:      bridge,
		Capture:     signals,
		Gateway:     savefile.NewGateway(),
		DatabaseDir: cfg.Paths.DatabaseDir,
	})
	router := rpc.NewRouter(handlers.Routes())
	router.SetStartup(startupSave, handlers.OpenStartupSave)

	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Handle("/rpc", rpc.NewTransport(router))
	if cfg.Paths.UIDir != "" {
		mux.Handle("/*", http.FileServer(http.Dir(cfg.Paths.UIDir)))
	}

	ln, err := net.Listen("tcp", cfg.Server.Bind)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logx.Log.Error().Err(err).Msg("bridge server stopped")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bridge.Run(ctx)
	go worker.Run(ctx)

	logx.Log.Info().Str("addr", ln.Addr().String()).Str("version", Version).Msg("savebridge listening")

	// Blocks on the window event loop until a CloseWindow event (or the
	// window manager) terminates it. Requests in flight run to
	// completion; only new work stops being scheduled.
	window.Navigate("http://" + ln.Addr().String() + "/")
	window.Run()

	shutdownCtx, done := context.WithTimeout(context.Background(), 3*time.Second)
	defer done()
	return srv.Shutdown(shutdownCtx)
}
