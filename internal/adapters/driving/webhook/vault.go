package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nativz/cortex-sync/internal/core/ports/driving"
)

// maxPayloadBytes caps accepted webhook bodies.
const maxPayloadBytes = 5 << 20

// VaultHandler ingests GitHub webhook deliveries for the vault
// repository: push events drive per-path re-syncs and index removals.
type VaultHandler struct {
	orchestrator driving.SyncOrchestrator
	indexer      driving.Indexer
	secret       string // empty skips signature verification
	branch       string
	log          zerolog.Logger
}

// NewVaultHandler builds the vault webhook handler. An empty secret
// disables signature verification; that is a deliberate dev-only mode
// and is logged loudly at startup by the caller.
func NewVaultHandler(orchestrator driving.SyncOrchestrator, indexer driving.Indexer, secret, branch string, log zerolog.Logger) *VaultHandler {
	return &VaultHandler{
		orchestrator: orchestrator,
		indexer:      indexer,
		secret:       secret,
		branch:       branch,
		log:          log,
	}
}

type pushCommit struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Removed  []string `json:"removed"`
}

type pushPayload struct {
	Ref     string       `json:"ref"`
	Commits []pushCommit `json:"commits"`
}

func (h *VaultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		http.Error(w, `{"error":"unreadable body"}`, http.StatusBadRequest)
		return
	}

	if h.secret != "" && !h.verifySignature(body, r.Header.Get("X-Hub-Signature-256")) {
		h.log.Warn().Msg("vault webhook signature rejected")
		http.Error(w, `{"error":"invalid signature"}`, http.StatusUnauthorized)
		return
	}

	event := r.Header.Get("X-GitHub-Event")
	switch event {
	case "ping":
		writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
	case "push":
		h.handlePush(w, r, body)
	default:
		h.log.Debug().Str("event", event).Msg("vault webhook event ignored")
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "ignored"})
	}
}

func (h *VaultHandler) handlePush(w http.ResponseWriter, r *http.Request, body []byte) {
	var payload pushPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, `{"error":"malformed payload"}`, http.StatusBadRequest)
		return
	}

	if payload.Ref != "refs/heads/"+h.branch {
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "branch ignored"})
		return
	}

	changed, removed := collectMarkdownPaths(payload.Commits)
	h.log.Info().Int("changed", len(changed)).Int("removed", len(removed)).Msg("vault push received")

	// Downstream failures are logged, never surfaced: the delivery was
	// structurally fine and a retry would not help.
	ctx := r.Context()
	for _, path := range changed {
		if _, err := h.orchestrator.SyncVaultPath(ctx, path); err != nil {
			h.log.Error().Err(err).Str("path", path).Msg("vault path sync failed")
		}
	}
	for _, path := range removed {
		if err := h.indexer.RemoveFile(ctx, path); err != nil {
			h.log.Error().Err(err).Str("path", path).Msg("index removal failed")
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"changed": len(changed),
		"removed": len(removed),
	})
}

// collectMarkdownPaths gathers the unique markdown paths across all
// commits of a push. A path both changed and removed in the same push
// counts as changed only when a later commit re-added it, so removal
// wins unless it also appears in changed afterwards.
func collectMarkdownPaths(commits []pushCommit) (changed, removed []string) {
	state := map[string]bool{} // true = changed, false = removed
	var order []string

	track := func(path string, isChange bool) {
		if !strings.HasSuffix(path, ".md") {
			return
		}
		if _, seen := state[path]; !seen {
			order = append(order, path)
		}
		state[path] = isChange
	}

	for _, commit := range commits {
		for _, p := range commit.Added {
			track(p, true)
		}
		for _, p := range commit.Modified {
			track(p, true)
		}
		for _, p := range commit.Removed {
			track(p, false)
		}
	}

	for _, path := range order {
		if state[path] {
			changed = append(changed, path)
		} else {
			removed = append(removed, path)
		}
	}
	return changed, removed
}

func (h *VaultHandler) verifySignature(body []byte, header string) bool {
	const prefix = "sha256="
	if !strings.HasPrefix(header, prefix) {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimPrefix(header, prefix)))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fmt.Fprint(w, "{}")
	}
}
