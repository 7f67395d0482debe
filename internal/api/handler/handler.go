package handler

import "coedit/gateway/internal/gateway"

// Handler містить посилання на сервіси шлюзу, потрібні обробникам.
type Handler struct {
	Gateway *gateway.Service
}

func NewHandler(gw *gateway.Service) *Handler {
	return &Handler{Gateway: gw}
}
