package web

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sitesmith/internal/events"
	"sitesmith/internal/panels"
	"sitesmith/internal/preview"
	"sitesmith/internal/sandbox"
	"sitesmith/internal/services"
)

// NewServer wires the HTTP surface over the service container.
func NewServer(svc *services.DbServices, broadcaster *events.Broadcaster, imageGen ImageGenerator, addr string) *http.Server {
	h := &Handlers{
		svc:         svc,
		detector:    sandbox.NewDetector(),
		publisher:   preview.NewPublisher(),
		broadcaster: broadcaster,
		imageGen:    imageGen,
		panels:      panels.NewService(panelInvoker{svc: svc}),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/conversations", h.HandleListConversations)
	mux.HandleFunc("POST /api/conversations", h.HandleCreateConversation)
	mux.HandleFunc("GET /api/conversations/{id}", h.HandleGetConversation)
	mux.HandleFunc("PATCH /api/conversations/{id}", h.HandleRenameConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", h.HandleDeleteConversation)
	mux.HandleFunc("POST /api/conversations/{id}/select", h.HandleSelectConversation)
	mux.HandleFunc("POST /api/conversations/{id}/messages", h.HandleSendMessage)
	mux.HandleFunc("POST /api/conversations/{id}/clear", h.HandleClearChat)
	mux.HandleFunc("POST /api/conversations/{id}/files", h.HandleAddFile)
	mux.HandleFunc("PUT /api/conversations/{id}/files/{name}", h.HandleWriteFile)
	mux.HandleFunc("DELETE /api/conversations/{id}/files/{name}", h.HandleDeleteFile)
	mux.HandleFunc("POST /api/conversations/{id}/files/{name}/select", h.HandleSelectFile)
	mux.HandleFunc("GET /api/conversations/{id}/versions", h.HandleListVersions)
	mux.HandleFunc("POST /api/conversations/{id}/versions/{vid}/restore", h.HandleRestoreVersion)
	mux.HandleFunc("DELETE /api/conversations/{id}/versions/{vid}", h.HandleDeleteVersion)
	mux.HandleFunc("GET /api/conversations/{id}/export", h.HandleExport)
	mux.HandleFunc("GET /api/conversations/{id}/check", h.HandleCheck)
	mux.HandleFunc("POST /api/conversations/{id}/publish", h.HandlePublish)

	mux.HandleFunc("GET /preview/{id}", h.HandlePreview)
	mux.HandleFunc("GET /preview/{id}/standalone", h.HandleStandalone)
	mux.HandleFunc("GET /api/preview/devices", h.HandleDevicePresets)

	mux.HandleFunc("POST /api/panels/{name}", h.HandlePanel)
	mux.HandleFunc("GET /api/templates", h.HandleListTemplates)
	mux.HandleFunc("GET /api/quick-actions", h.HandleListQuickActions)
	mux.HandleFunc("POST /api/quick-actions", h.HandleRunQuickAction)
	mux.HandleFunc("GET /api/snippets", h.HandleListSnippets)
	mux.HandleFunc("POST /api/snippets/insert", h.HandleInsertSnippet)
	mux.HandleFunc("POST /api/images", h.HandleGenerateImage)
	mux.HandleFunc("GET /api/models", h.HandleListModels)
	mux.HandleFunc("GET /api/settings", h.HandleGetSettings)
	mux.HandleFunc("PUT /api/settings", h.HandleUpdateSettings)

	mux.HandleFunc("GET /api/events", h.HandleEvents)

	return &http.Server{
		Addr:    addr,
		Handler: securityHeaders(mux),
	}
}

// securityHeaders adds baseline headers to every response. The preview
// handlers layer their own sandbox policy on top.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("sitesmith running at http://%s", srv.Addr)
	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// panelInvoker routes panel prompts through the configured generation model.
type panelInvoker struct {
	svc *services.DbServices
}

func (p panelInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	invoker, err := p.svc.Invoker(ctx)
	if err != nil {
		return "", err
	}
	return invoker.Invoke(ctx, prompt)
}
