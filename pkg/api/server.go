package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /matching)
	StartMatching(w http.ResponseWriter, r *http.Request)
	// (DELETE /matching/{sessionId})
	CancelMatching(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	// (GET /sessions)
	ListSessions(w http.ResponseWriter, r *http.Request)
	// (POST /sessions)
	InviteDirect(w http.ResponseWriter, r *http.Request)
	// (GET /sessions/{sessionId})
	GetSession(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	// (POST /sessions/{sessionId}/requests)
	AddRequest(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	// (DELETE /sessions/{sessionId}/requests/{itemId})
	RemoveRequest(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID, itemId string)
	// (POST /sessions/{sessionId}/messages)
	SendMessage(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	// (POST /sessions/{sessionId}/confirm)
	ConfirmSession(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	// (POST /sessions/{sessionId}/cancel)
	CancelSession(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	// (GET /sessions/{sessionId}/feed)
	SubscribeFeed(w http.ResponseWriter, r *http.Request, sessionId openapi_types.UUID)
	// (GET /unread)
	GetUnreadSummary(w http.ResponseWriter, r *http.Request)
	// (GET /users/{userId}/items)
	GetOwnedItems(w http.ResponseWriter, r *http.Request, userId string)
}

type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts path parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError is reported when a path parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	handler := http.Handler(fn)
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindSessionID(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, bool) {
	var sessionId openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "sessionId", chi.URLParam(r, "sessionId"), &sessionId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "sessionId", Err: err})
		return sessionId, false
	}
	return sessionId, true
}

func (siw *ServerInterfaceWrapper) bindString(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return "", false
	}
	return value, true
}

// StartMatching operation middleware
func (siw *ServerInterfaceWrapper) StartMatching(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.StartMatching)
}

// CancelMatching operation middleware
func (siw *ServerInterfaceWrapper) CancelMatching(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CancelMatching(w, r, sessionId)
	})
}

// ListSessions operation middleware
func (siw *ServerInterfaceWrapper) ListSessions(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.ListSessions)
}

// InviteDirect operation middleware
func (siw *ServerInterfaceWrapper) InviteDirect(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.InviteDirect)
}

// GetSession operation middleware
func (siw *ServerInterfaceWrapper) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetSession(w, r, sessionId)
	})
}

// AddRequest operation middleware
func (siw *ServerInterfaceWrapper) AddRequest(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.AddRequest(w, r, sessionId)
	})
}

// RemoveRequest operation middleware
func (siw *ServerInterfaceWrapper) RemoveRequest(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionID(w, r)
	if !ok {
		return
	}
	itemId, ok := siw.bindString(w, r, "itemId")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.RemoveRequest(w, r, sessionId, itemId)
	})
}

// SendMessage operation middleware
func (siw *ServerInterfaceWrapper) SendMessage(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SendMessage(w, r, sessionId)
	})
}

// ConfirmSession operation middleware
func (siw *ServerInterfaceWrapper) ConfirmSession(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ConfirmSession(w, r, sessionId)
	})
}

// CancelSession operation middleware
func (siw *ServerInterfaceWrapper) CancelSession(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CancelSession(w, r, sessionId)
	})
}

// SubscribeFeed operation middleware
func (siw *ServerInterfaceWrapper) SubscribeFeed(w http.ResponseWriter, r *http.Request) {
	sessionId, ok := siw.bindSessionID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SubscribeFeed(w, r, sessionId)
	})
}

// GetUnreadSummary operation middleware
func (siw *ServerInterfaceWrapper) GetUnreadSummary(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetUnreadSummary)
}

// GetOwnedItems operation middleware
func (siw *ServerInterfaceWrapper) GetOwnedItems(w http.ResponseWriter, r *http.Request) {
	userId, ok := siw.bindString(w, r, "userId")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetOwnedItems(w, r, userId)
	})
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates http.Handler with routing matching the API.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerFromMux creates http.Handler with routing matching the API, mounted on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	base := options.BaseURL
	r.Group(func(r chi.Router) {
		r.Post(base+"/matching", wrapper.StartMatching)
		r.Delete(base+"/matching/{sessionId}", wrapper.CancelMatching)
		r.Get(base+"/sessions", wrapper.ListSessions)
		r.Post(base+"/sessions", wrapper.InviteDirect)
		r.Get(base+"/sessions/{sessionId}", wrapper.GetSession)
		r.Post(base+"/sessions/{sessionId}/requests", wrapper.AddRequest)
		r.Delete(base+"/sessions/{sessionId}/requests/{itemId}", wrapper.RemoveRequest)
		r.Post(base+"/sessions/{sessionId}/messages", wrapper.SendMessage)
		r.Post(base+"/sessions/{sessionId}/confirm", wrapper.ConfirmSession)
		r.Post(base+"/sessions/{sessionId}/cancel", wrapper.CancelSession)
		r.Get(base+"/sessions/{sessionId}/feed", wrapper.SubscribeFeed)
		r.Get(base+"/unread", wrapper.GetUnreadSummary)
		r.Get(base+"/users/{userId}/items", wrapper.GetOwnedItems)
	})
	return r
}
