package router

import (
	"fmt"

	"bookingdesk/internal/usecase"
	"bookingdesk/pkg/logger"
)

// TemplateRouter routes notification kinds to the matching template handler
type TemplateRouter struct {
	handlers []usecase.TemplateHandler
	logger   logger.Logger
}

// NewTemplateRouter creates a new template router
func NewTemplateRouter(logger logger.Logger) *TemplateRouter {
	return &TemplateRouter{
		handlers: make([]usecase.TemplateHandler, 0),
		logger:   logger,
	}
}

// Register registers a template handler; earlier registrations win
func (r *TemplateRouter) Register(handler usecase.TemplateHandler) {
	r.handlers = append(r.handlers, handler)
	r.logger.Info("Registered template", "handler", fmt.Sprintf("%T", handler))
}

// GetHandler returns the first handler accepting kind
func (r *TemplateRouter) GetHandler(kind string) usecase.TemplateHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(kind) {
			return handler
		}
	}
	return nil
}
