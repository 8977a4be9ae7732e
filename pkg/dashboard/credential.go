package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clockheat/clockheat/internal/rest"
	"github.com/clockheat/clockheat/pkg/clockify"
	log "github.com/sirupsen/logrus"
)

type CredentialStore interface {
	LoadAPIKey(ctx context.Context) (string, error)
	SaveAPIKey(ctx context.Context, apiKey string) error
	ClearAPIKey(ctx context.Context) error
}

// RestoreSession loads the stored API key into the session, falling back to
// the configured one, and from then on keeps the store in sync with the
// session, including keys cleared after Clockify rejected them.
func RestoreSession(ctx context.Context, session *clockify.Session, store CredentialStore, configured string) error {
	apiKey, err := store.LoadAPIKey(ctx)
	if err != nil {
		return err
	}
	if apiKey == "" {
		apiKey = configured
	}
	session.SetAPIKey(apiKey)

	session.OnChange(func(apiKey string) {
		var err error
		if apiKey == "" {
			err = store.ClearAPIKey(context.Background())
		} else {
			err = store.SaveAPIKey(context.Background(), apiKey)
		}
		if err != nil {
			log.Errorf("Failed to persist Clockify API key change: %v", err)
		}
	})
	return nil
}

type CredentialDTO struct {
	ApiKey string `json:"apiKey"`
}

type CredentialHandler struct {
	session *clockify.Session
}

func NewCredentialHandler(session *clockify.Session) *CredentialHandler {
	return &CredentialHandler{session: session}
}

// SetCredential godoc
// @Summary Set the Clockify API key
// @Description Stores the key and reloads the dashboard with it
// @Tags Credential
// @Accept json
// @Param credential body CredentialDTO true "API key"
// @Success 204
// @Failure 400 {object} rest.ErrorResponse "API key is required"
// @Router /api/credential [put]
func (h *CredentialHandler) SetCredential(w http.ResponseWriter, r *http.Request) {
	var dto CredentialDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	apiKey := strings.TrimSpace(dto.ApiKey)
	if apiKey == "" {
		rest.WriteError(w, http.StatusBadRequest, "API key is required", "")
		return
	}
	log.Info("Clockify API key updated")
	h.session.SetAPIKey(apiKey)
	w.WriteHeader(http.StatusNoContent)
}

// ClearCredential godoc
// @Summary Forget the Clockify API key
// @Tags Credential
// @Success 204
// @Router /api/credential [delete]
func (h *CredentialHandler) ClearCredential(w http.ResponseWriter, r *http.Request) {
	log.Info("Clockify API key cleared")
	h.session.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// GetCredential godoc
// @Summary Whether an API key is set
// @Tags Credential
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/credential [get]
func (h *CredentialHandler) GetCredential(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, map[string]bool{"present": h.session.HasCredential()})
}
