package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/pos-kasir/api/web"
	"github.com/irsalhamdi/pos-kasir/api/weberr"
	"github.com/irsalhamdi/pos-kasir/rate"
	"github.com/irsalhamdi/pos-kasir/store"
	"github.com/irsalhamdi/pos-kasir/validate"
)

const loggedInKey = "isLoggedIn"

// Authenticate rejects requests whose session has not logged in.
func Authenticate(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !sm.GetBool(ctx, loggedInKey) {
				return weberr.NotAuthorized(errors.New("session not logged in"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func HandleLogin(st *store.Store, sm *scs.SessionManager, lim *rate.Limiter) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if !lim.Check(clientID(r)) {
			err := errors.New("too many login attempts, try again later")
			return weberr.TooManyRequests(err)
		}

		var in Login
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.Invalid(err)
		}

		if err := Check(ctx, st, in.Username, in.Password); err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				return weberr.NotAuthorized(err)
			}
			return err
		}

		if err := sm.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}
		sm.Put(ctx, loggedInKey, true)

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleLogout(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := sm.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleShowCurrent(st *store.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		username, err := Current(ctx, st)
		if err != nil {
			return err
		}

		resp := struct {
			Username string `json:"username"`
		}{username}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

func HandleUpdateProfile(st *store.Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var up ProfileUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.Invalid(err)
		}

		if err := UpdateProfile(ctx, st, up); err != nil {
			switch {
			case errors.Is(err, ErrInvalidCredentials):
				return weberr.NewError(err, "current password is wrong", http.StatusUnauthorized)
			case errors.Is(err, ErrPasswordMismatch):
				return weberr.Invalid(err)
			}
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
