package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
	"github.com/jhoicas/exp-usinagem-api/pkg/jwt"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	Orders    *production.OrderUseCase
	Workflow  *production.WorkflowUseCase
	Entries   *production.EntryUseCase
	Board     *production.BoardUseCase
	JWTSecret string
}

// Router registra as rotas da API. Todas exigem Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	supervisors := RequireRole(jwt.RoleSupervisor, jwt.RoleAdmin)
	anyRole := RequireRole(jwt.RoleOperator, jwt.RoleSupervisor, jwt.RoleAdmin)

	orderHandler := NewOrderHandler(deps.Orders)
	workflowHandler := NewWorkflowHandler(deps.Workflow)
	entryHandler := NewEntryHandler(deps.Entries)
	boardHandler := NewBoardHandler(deps.Board)

	orders := api.Group("/orders", anyRole)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Delete("/:id", RequireRole(jwt.RoleAdmin), orderHandler.Delete)
	orders.Get("/:id/lots", orderHandler.Lots)
	orders.Get("/:id/movements", orderHandler.Movements)
	orders.Get("/:id/history", orderHandler.History)
	orders.Get("/:id/report.pdf", orderHandler.Report)
	orders.Post("/:id/reconcile", supervisors, orderHandler.Reconcile)

	orders.Post("/:id/entries", entryHandler.Record)

	orders.Post("/:id/approve", workflowHandler.Approve)
	orders.Post("/:id/reopen", workflowHandler.Reopen)
	orders.Post("/:id/approve-all", workflowHandler.ApproveAll)
	orders.Post("/:id/reopen-all", workflowHandler.ReopenAll)
	orders.Post("/:id/move", workflowHandler.Move)
	orders.Post("/:id/transfer", workflowHandler.Transfer)
	orders.Post("/:id/finalize", workflowHandler.Finalize)

	movements := api.Group("/movements", anyRole)
	movements.Patch("/:id", supervisors, entryHandler.Correct)
	movements.Get("/:id/corrections", entryHandler.Corrections)

	api.Get("/board/:unit", anyRole, boardHandler.Board)
}
