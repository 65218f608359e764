package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/ports"
	"github.com/AnshAggr1303/loan-agent-system/internal/observability/metrics"
)

type Router struct {
	service      string
	conversation ports.ConversationService
	applications ports.ApplicationReader
	catalog      ports.ProductCatalog
	registry     *SessionRegistry
	metrics      *metrics.HTTPServerMetrics
}

func NewRouter(
	service string,
	conversation ports.ConversationService,
	applications ports.ApplicationReader,
	catalog ports.ProductCatalog,
	registry *SessionRegistry,
	m *metrics.HTTPServerMetrics,
) *Router {
	if registry == nil {
		registry = NewSessionRegistry()
	}
	return &Router{
		service:      service,
		conversation: conversation,
		applications: applications,
		catalog:      catalog,
		registry:     registry,
		metrics:      m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/chat", rt.chat)
	mux.HandleFunc("/v1/sessions/", rt.getSession)
	mux.HandleFunc("/v1/applications/", rt.getApplication)
	mux.HandleFunc("/v1/products", rt.listProducts)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string           `json:"session_id"`
	Response  string           `json:"response"`
	Agent     string           `json:"agent_used"`
	Stage     domain.Stage     `json:"stage"`
	Decision  *domain.Decision `json:"decision,omitempty"`
}

func (rt *Router) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	start := time.Now()
	var reply domain.TurnReply
	rt.registry.WithTurn(sessionID, func(state domain.ConversationState) domain.ConversationState {
		next, turnReply := rt.conversation.ProcessTurn(r.Context(), state, req.Message)
		reply = turnReply
		return next
	})

	if rt.metrics != nil {
		rt.metrics.RecordTurn(rt.service, string(reply.Stage), reply.Agent, time.Since(start))
		if reply.Decision != nil {
			rt.metrics.RecordDecision(rt.service, reply.Decision.Approved)
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: sessionID,
		Response:  reply.Response,
		Agent:     reply.Agent,
		Stage:     reply.Stage,
		Decision:  reply.Decision,
	})
}

func (rt *Router) getSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session id is required"})
		return
	}

	state, ok := rt.registry.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (rt *Router) getApplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if rt.applications == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "application lookup is disabled"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/applications/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "application id is required"})
		return
	}

	app, err := rt.applications.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (rt *Router) listProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if rt.catalog == nil {
		writeJSON(w, http.StatusOK, map[string]any{"products": []domain.LoanProduct{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": rt.catalog.Products()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
