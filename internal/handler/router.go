package handler

import "github.com/gin-gonic/gin"

// Routes groups the API handlers. A nil Exports leaves the export routes unregistered.
type Routes struct {
	Subjects *SubjectHandler
	Sessions *SessionHandler
	Stats    *StatsHandler
	Timer    *TimerHandler
	Exports  *ExportHandler
}

// Register mounts every API route on group.
func (r Routes) Register(group *gin.RouterGroup) {
	subjects := group.Group("/subjects")
	subjects.GET("", r.Subjects.List)
	subjects.POST("", r.Subjects.Create)
	subjects.GET("/:id", r.Subjects.Get)
	subjects.PATCH("/:id", r.Subjects.Update)
	subjects.PUT("/:id", r.Subjects.Update)
	subjects.DELETE("/:id", r.Subjects.Delete)

	sessions := group.Group("/sessions")
	sessions.GET("", r.Sessions.List)
	sessions.POST("", r.Sessions.Create)
	sessions.GET("/:id", r.Sessions.Get)
	sessions.PATCH("/:id", r.Sessions.Update)
	sessions.PUT("/:id", r.Sessions.Update)
	sessions.DELETE("/:id", r.Sessions.Delete)

	stats := group.Group("/stats")
	stats.GET("", r.Stats.Overall)
	stats.GET("/weekly", r.Stats.Weekly)
	stats.GET("/subject/:id", r.Stats.Subject)

	timer := group.Group("/timer")
	timer.GET("", r.Timer.Current)
	timer.POST("/start", r.Timer.Start)
	timer.POST("/pause", r.Timer.Pause)
	timer.POST("/stop", r.Timer.Stop)
	timer.POST("/reset", r.Timer.Reset)

	if r.Exports != nil {
		exports := group.Group("/exports")
		exports.GET("/sessions.csv", r.Exports.SessionsCSV)
		exports.GET("/report.pdf", r.Exports.ReportPDF)
	}
}
