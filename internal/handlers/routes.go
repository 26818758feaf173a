package handlers

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the API exposes.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Proposal *ProposalHandler
	Bet      *BetHandler
	Dare     *DareHandler
	Outcome  *OutcomeHandler
}

// RegisterRoutes mounts the API under /api. requireAuth guards every
// route except signup and login.
func RegisterRoutes(router gin.IRouter, h *Handlers, requireAuth gin.HandlerFunc) {
	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", h.Auth.Signup)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.GET("/me", requireAuth, h.Auth.Me)
		authRoutes.POST("/logout", requireAuth, h.Auth.Logout)
	}

	protected := api.Group("")
	protected.Use(requireAuth)
	{
		protected.GET("/user/stats", h.User.GetStats)

		protected.POST("/proposals", h.Proposal.CreateProposal)
		protected.GET("/proposals", h.Proposal.ListProposals)
		protected.GET("/proposals/:id", h.Proposal.GetProposal)
		protected.PUT("/proposals/:id/accept", h.Proposal.AcceptProposal)
		protected.PUT("/proposals/:id/decline", h.Proposal.DeclineProposal)

		protected.POST("/bets", h.Bet.PlaceBet)
		protected.GET("/bets/:proposal_id", h.Bet.ListBets)

		protected.POST("/dares/roll", h.Dare.RollDare)
		protected.GET("/dares/catalog", h.Dare.GetCatalog)
		protected.GET("/dares/:proposal_id", h.Dare.ListDares)

		protected.POST("/outcomes", h.Outcome.SubmitRecap)
		protected.GET("/outcomes/:proposal_id", h.Outcome.GetRecap)
	}
}
