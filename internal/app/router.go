package app

import (
	"qbank_backend/docs"
	"qbank_backend/internal/middleware"
	"qbank_backend/internal/model"
	"qbank_backend/pkg/monitoring"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) initRouter() {
	r := a.Engine

	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	// 公共路由
	r.GET("/api/health", a.healthController.Check)
	r.POST("/api/register", a.authController.Register)
	r.POST("/api/login", a.authController.Login)

	r.GET("/metrics", monitoring.PrometheusHandler())

	// 本地存储时题图由服务直接托管
	if a.Config.Storage.Type == "local" {
		r.Static("/uploads", a.Config.Storage.LocalPath)
	}

	auth := r.Group("/api", middleware.AuthMiddleware(a.Config))
	{
		auth.GET("/profile", a.authController.GetProfile)
		auth.PUT("/profile", a.authController.UpdateProfile)
	}

	// 教师路由：提交、列表、编辑、导出，外加审核子路由。
	// 角色严格相等，管理员不放行
	faculty := r.Group("/api/faculty", middleware.AuthMiddleware(a.Config), middleware.RoleMiddleware(model.Faculty))
	{
		faculty.GET("/context", a.questionController.GetSubmissionContext)

		faculty.GET("/questions/manage", a.questionController.ListManage)
		faculty.GET("/questions/details", a.questionController.ListDetails)
		faculty.GET("/questions/export", a.questionController.ExportCSV)
		faculty.GET("/questions/:id", a.questionController.GetQuestion)
		faculty.PUT("/questions/:id", a.questionController.UpdateQuestion)

		faculty.POST("/questions", a.submissionController.CreateQuestion)
		faculty.POST("/questions/figure", a.submissionController.UploadFigure)
		faculty.POST("/questions/bulk", a.submissionController.BulkUpload)

		faculty.GET("/vetting/assignment", a.vettingController.GetAssignment)
		faculty.GET("/vetting/questions", a.vettingController.ListVetting)
		faculty.GET("/vetting/remarks", a.vettingController.GetRemarks)
		faculty.PUT("/vetting/questions/:id/accept", a.vettingController.Accept)
		faculty.PUT("/vetting/questions/:id/reject", a.vettingController.Reject)
	}

	admin := r.Group("/api/admin", middleware.AuthMiddleware(a.Config), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/courses/:courseCode/questions", a.adminController.ListAccepted)
		admin.GET("/courses/:courseCode/qb", a.adminController.GenerateQB)
		admin.GET("/courses/:courseCode/export", a.adminController.ExportCSV)
		admin.GET("/questions/:id", a.adminController.GetQuestion)
		admin.PUT("/questions/:id", a.adminController.UpdateQuestion)
		admin.DELETE("/questions/:id", a.adminController.DeleteQuestion)
		admin.GET("/faculty", a.adminController.ListFaculty)
		admin.PUT("/faculty/assign", a.adminController.AssignReviewer)
	}
}
