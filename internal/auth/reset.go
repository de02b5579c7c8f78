package auth

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/healthhub-app/healthhub/backend/internal/common"
	"github.com/healthhub-app/healthhub/backend/internal/models"
)

// generateResetCode returns a uniformly random six-digit code in
// [100000, 999999].
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// RequestReset issues a reset challenge for the given username and emails
// the code. A new request overwrites any prior unconsumed challenge on the
// session. The challenge is recorded before dispatch, so a delivery failure
// is reported to the caller but does not discard the code.
func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req models.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, common.ErrValidation)
		return
	}
	username := req.Username

	email, err := h.users.GetEmail(r.Context(), username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, common.ErrUnknownUser)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	code, err := generateResetCode()
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	sid, sess := h.sessionFromRequest(r)
	if sess == nil {
		sess = &Session{}
		sid = ""
	}
	sess.ResetUser = username
	sess.ResetCode = code
	sess.ResetIssuedAt = time.Now()

	if sid == "" {
		sid, err = h.sessions.Create(r.Context(), sess)
	} else {
		err = h.sessions.Save(r.Context(), sid, sess)
	}
	if err != nil {
		http.Error(w, `{"error":"session error"}`, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})

	if err := h.sender.SendResetCode(email, code); err != nil {
		// Challenge stays recorded; only the delivery is reported failed.
		slog.Warn("reset code delivery failed", "username", username, "err", err)
		writeError(w, http.StatusBadGateway, common.ErrDeliveryFailure)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"reset code sent"}`))
}

// ConfirmReset consumes the session's reset challenge: on a matching code
// and matching password pair it rehashes and stores the new password. The
// challenge is single-use and is discarded on success.
func (h *Handler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	sid, sess := h.sessionFromRequest(r)
	if sess == nil || !sess.ActiveChallenge() {
		writeError(w, http.StatusConflict, common.ErrNoActiveChallenge)
		return
	}

	var req models.ResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if req.Code != sess.ResetCode {
		writeError(w, http.StatusUnauthorized, common.ErrCodeMismatch)
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, common.ErrPasswordMismatch)
		return
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		writeError(w, http.StatusBadRequest, common.ErrValidation)
		return
	}

	hashed, err := Hash(req.NewPassword)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.users.UpdatePassword(r.Context(), sess.ResetUser, hashed); err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	sess.ClearChallenge()
	if err := h.sessions.Save(r.Context(), sid, sess); err != nil {
		slog.Error("clearing reset challenge failed", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"password updated"}`))
}

// sessionFromRequest loads the session named by the request cookie. Returns
// ("", nil) when there is no cookie or the session is gone.
func (h *Handler) sessionFromRequest(r *http.Request) (string, *Session) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", nil
	}
	sess, err := h.sessions.Get(r.Context(), cookie.Value)
	if err != nil || sess == nil {
		return "", nil
	}
	return cookie.Value, sess
}
