package echo

import e "github.com/labstack/echo/v4"

// RegisterRoutes mounts the handlers that are set; nil handlers are skipped.
func RegisterRoutes(server *e.Echo, searchHandler *SearchHandler, importHandler *ImportHandler, jobHandler *JobHandler) {
	group := server.Group("/api/v1/directory-imports")

	if jobHandler != nil {
		group.GET("", jobHandler.ListJobs)
		group.GET("/:id", jobHandler.GetJob)
		group.DELETE("/:id", jobHandler.DeleteJob)
	}
	if searchHandler != nil {
		group.POST("/search", searchHandler.Search)
		group.POST("/lists", searchHandler.SearchList)
		group.GET("/:id/results", searchHandler.Results)
		group.POST("/:id/more", searchHandler.LoadMore)
		group.POST("/:id/retry", searchHandler.Retry)
	}
	if importHandler != nil {
		group.POST("/:id/import", importHandler.Import)
		group.POST("/:id/cancel", importHandler.Cancel)
	}
}

// RegisterRecordRoutes mounts the read side of imported people and organizations.
func RegisterRecordRoutes(server *e.Echo, recordHandler *RecordHandler) {
	if recordHandler == nil {
		return
	}
	server.GET("/api/v1/prospects/:target", recordHandler.ListRecords)
}
