package handler

import (
	"net/http"

	"github.com/itchan-dev/chanfeed/internal/service"
	"github.com/itchan-dev/chanfeed/shared/api"
	"github.com/itchan-dev/chanfeed/shared/domain"
	"github.com/itchan-dev/chanfeed/shared/utils"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, token, err := h.auth.Register(service.RegisterData{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Passcode:  req.Passcode,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.setAccessCookie(w, token)
	writeData(w, http.StatusCreated, api.AuthResponse{User: user, Token: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user, token, err := h.auth.Login(domain.Credentials{Username: req.Username, Passcode: req.Passcode})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	h.setAccessCookie(w, token)
	writeData(w, http.StatusOK, api.AuthResponse{User: user, Token: token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	full, err := h.auth.Me(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeData(w, http.StatusOK, full)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, err := requestUser(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	// Going offline on logout is best effort; an expired cookie is the
	// actual logout.
	if err := h.presence.SetOnlineStatus(user.Id, false); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *Handler) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
