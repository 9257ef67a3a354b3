package ports

import "github.com/ianfmc/livewell-nadex/internal/domain"

// ReportRenderer convierte un dashboard ya preparado en un documento (HTML).
type ReportRenderer interface {
	Render(d domain.Dashboard) (string, error)
}
