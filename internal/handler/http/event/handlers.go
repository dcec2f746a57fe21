// Package event exposes the typed suite events over HTTP. Each
// endpoint decodes one event shape, validates it, and returns the
// dispatch outcome so the calling service can react to failures.
package event

import (
	"encoding/json"
	"errors"
	"net/http"

	"resto-notify/internal/handler/http/respond"
	"resto-notify/internal/usecase/event"
)

type OrderCreatedHandler struct{ Svc event.Service }

func (h OrderCreatedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var e event.OrderCreated
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if err := e.Validate(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusOK, h.Svc.OrderCreated(r.Context(), e))
}

type ShiftPublishedHandler struct{ Svc event.Service }

func (h ShiftPublishedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var e event.ShiftPublished
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if err := e.Validate(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusOK, h.Svc.ShiftPublished(r.Context(), e))
}

type LeaveDecidedHandler struct{ Svc event.Service }

func (h LeaveDecidedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var e event.LeaveDecided
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if err := e.Validate(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusOK, h.Svc.LeaveDecided(r.Context(), e))
}

type PayrollIssuedHandler struct{ Svc event.Service }

func (h PayrollIssuedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var e event.PayrollIssued
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if err := e.Validate(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusOK, h.Svc.PayrollIssued(r.Context(), e))
}

// Register wires the event endpoints onto the mux.
func Register(mux *http.ServeMux, svc event.Service) {
	mux.Handle("POST /api/events/order-created", OrderCreatedHandler{svc})
	mux.Handle("POST /api/events/shift-published", ShiftPublishedHandler{svc})
	mux.Handle("POST /api/events/leave-decided", LeaveDecidedHandler{svc})
	mux.Handle("POST /api/events/payroll-issued", PayrollIssuedHandler{svc})
}
