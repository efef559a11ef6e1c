package http

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/millet-kiosk/internal/application/analytics"
	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

// DashboardHandler maneja el panel de analítica de la consola admin.
type DashboardHandler struct {
	s *Server
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(s *Server) *DashboardHandler {
	return &DashboardHandler{s: s}
}

type dashboardPage struct {
	Layout
	Summary *dto.DashboardSummaryDTO
	// Statuses orden fijo de las barras de pedidos por estado.
	Statuses []statusCount
}

type statusCount struct {
	Status string
	Count  int
	// Percent ancho relativo al estado con más pedidos.
	Percent int
}

// Page GET /admin/dashboard.
func (h *DashboardHandler) Page(c *fiber.Ctx) error {
	summary, err := appanalytics.NewDashboardUseCase(h.s.backend(c)).GetSummary(requestContext(c))
	if err != nil {
		return h.s.failPage(c, "Dashboard", err)
	}
	return h.s.views.render(c, fiber.StatusOK, "dashboard", dashboardPage{
		Layout:   h.s.layout(c, "Dashboard", "/admin/dashboard"),
		Summary:  summary,
		Statuses: statusBars(summary),
	})
}

// GetSummary godoc
// @Summary      KPIs del panel admin
// @Tags         dashboard
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := appanalytics.NewDashboardUseCase(h.s.backend(c)).GetSummary(requestContext(c))
	if err != nil {
		return h.s.failAPI(c, err)
	}
	return c.JSON(summary)
}

func statusBars(summary *dto.DashboardSummaryDTO) []statusCount {
	peak := 0
	for _, n := range summary.OrdersByStatus {
		peak = max(peak, n)
	}
	out := make([]statusCount, 0, len(summary.OrdersByStatus))
	for _, st := range orderedStatuses(summary.OrdersByStatus) {
		n := summary.OrdersByStatus[st]
		pct := 0
		if peak > 0 {
			pct = n * 100 / peak
		}
		out = append(out, statusCount{Status: st, Count: n, Percent: pct})
	}
	return out
}

// orderedStatuses estados conocidos en su orden habitual y luego los que el
// backend agregue, alfabéticamente.
func orderedStatuses(counts map[string]int) []string {
	out := append([]string(nil), entity.OrderStatuses...)
	known := make(map[string]struct{}, len(out))
	for _, s := range out {
		known[s] = struct{}{}
	}
	var extra []string
	for s := range counts {
		if _, ok := known[s]; !ok {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
