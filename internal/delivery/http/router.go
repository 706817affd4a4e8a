package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(holdHandler *HoldHandler, depositHandler *DepositHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.POST("/holds", holdHandler.CreateHold)
		v1.POST("/holds/:id/release", holdHandler.ReleaseHold)

		v1.GET("/tickets/:id/holds", holdHandler.GetTicketHolds)
		v1.POST("/tickets/:id/holds/release", holdHandler.ReleaseTicketHolds)

		exchangers := v1.Group("/exchangers/:id")
		{
			exchangers.GET("/holds", holdHandler.GetActiveHolds)
			exchangers.GET("/claim-limit", holdHandler.GetClaimLimit)
			exchangers.GET("/can-claim", holdHandler.CanClaim)

			exchangers.POST("/deposits", depositHandler.ProvisionWallet)
			exchangers.GET("/deposits", depositHandler.ListBalances)
			exchangers.GET("/deposits/:currency", depositHandler.GetBalance)
			exchangers.POST("/deposits/credit", depositHandler.CreditDeposit)
			exchangers.POST("/withdrawals", depositHandler.Withdraw)
		}
	}

	return router
}
