package comparison

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the comparison feature.
func NewFeature(cfg Config, deps Dependencies) *Feature {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	svc := NewService(cfg, deps)
	return &Feature{service: svc, handler: NewHandler(svc, deps.Logger)}
}

// Service returns the feature's service so other features can share its
// connections and metadata cache.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "comparison"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service.conns != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
