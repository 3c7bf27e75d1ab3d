package routes

import (
	"sportcenter_go/controllers"
	"sportcenter_go/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	memberController := &controllers.MemberController{}
	trainerController := &controllers.TrainerController{}
	receptionistController := &controllers.ReceptionistController{}
	classController := &controllers.ClassController{}
	enrollmentController := &controllers.EnrollmentController{}
	paymentController := &controllers.PaymentController{}
	progressController := &controllers.ProgressController{}
	appointmentController := &controllers.AppointmentController{}
	notificationController := controllers.NewNotificationController()
	newsController := &controllers.NewsController{}
	statisticsController := &controllers.StatisticsController{}

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Post("/auth/logout", authController.Logout)
	protected.Get("/auth/me", authController.GetCurrentUser)
	protected.Put("/auth/password", authController.ChangePassword)

	// Aliases kept for older clients that talk to /profile
	protected.Get("/profile", authController.GetCurrentUser)
	protected.Put("/profile/password", authController.ChangePassword)

	// User management routes
	users := protected.Group("/users")
	users.Get("/", middleware.RequireStaff(), userController.GetUsers)
	users.Get("/current-user", authController.GetCurrentUser)
	users.Get("/:id", userController.GetUser) // owner-or-admin enforced in handler
	users.Post("/", middleware.RequireAdmin(), userController.CreateUser)
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", middleware.RequireAdmin(), userController.DeleteUser)
	users.Post("/:id/avatar", userController.UploadAvatar)

	// Member management routes
	members := protected.Group("/members")
	members.Get("/", middleware.RequireStaff(), memberController.GetMembers)
	members.Get("/:id", memberController.GetMember)
	members.Put("/:id", middleware.RequireStaff(), memberController.UpdateMember)
	members.Delete("/:id", middleware.RequireAdmin(), memberController.DeleteMember)

	// Trainer management routes
	trainers := protected.Group("/trainers")
	trainers.Get("/specializations", trainerController.GetSpecializations)
	trainers.Get("/", trainerController.GetTrainers)
	trainers.Get("/:id", trainerController.GetTrainer)
	trainers.Put("/:id", trainerController.UpdateTrainer) // owner-or-admin enforced in handler
	trainers.Delete("/:id", middleware.RequireAdmin(), trainerController.DeleteTrainer)

	// Receptionist management routes
	receptionists := protected.Group("/receptionists", middleware.RequireAdmin())
	receptionists.Get("/", receptionistController.GetReceptionists)
	receptionists.Get("/:id", receptionistController.GetReceptionist)
	receptionists.Put("/:id", receptionistController.UpdateReceptionist)
	receptionists.Delete("/:id", receptionistController.DeleteReceptionist)

	// Class management routes. Soft delete with admin-only restore;
	// trainer updates are object-level checked in the handler.
	classes := protected.Group("/classes")
	classes.Get("/", classController.GetClasses)
	classes.Get("/:id", classController.GetClass)
	classes.Post("/", middleware.RequireCanManageClass(), classController.CreateClass)
	classes.Put("/:id", middleware.RequireCanManageClass(), classController.UpdateClass)
	classes.Delete("/:id", middleware.RequireCanManageClass(), classController.DeleteClass)
	classes.Post("/:id/restore", middleware.RequireAdmin(), classController.RestoreClass)
	classes.Post("/:id/enroll", middleware.RequireCanEnroll(), classController.EnrollClass)

	// Enrollment routes
	enrollments := protected.Group("/enrollments")
	enrollments.Get("/", enrollmentController.GetEnrollments)
	enrollments.Get("/:id", enrollmentController.GetEnrollment)
	enrollments.Post("/", enrollmentController.CreateEnrollment)
	enrollments.Put("/:id", middleware.RequireStaff(), enrollmentController.UpdateEnrollment)
	enrollments.Delete("/:id", enrollmentController.DeleteEnrollment)

	// Payment routes
	payments := protected.Group("/payments")
	payments.Get("/", paymentController.GetPayments)
	payments.Get("/:id", paymentController.GetPayment)
	payments.Post("/", middleware.RequireCanManagePayments(), paymentController.CreatePayment)
	payments.Put("/:id", middleware.RequireCanManagePayments(), paymentController.UpdatePayment)
	payments.Delete("/:id", middleware.RequireAdmin(), paymentController.DeletePayment)

	// Progress tracking routes
	progress := protected.Group("/progress")
	progress.Get("/", progressController.GetProgressNotes)
	progress.Get("/:id", progressController.GetProgressNote)
	progress.Post("/", middleware.RequireRole("admin", "trainer"), progressController.CreateProgressNote)
	progress.Put("/:id", middleware.RequireRole("admin", "trainer"), progressController.UpdateProgressNote)
	progress.Delete("/:id", middleware.RequireRole("admin", "trainer"), progressController.DeleteProgressNote)

	// Appointment routes
	appointments := protected.Group("/appointments")
	appointments.Get("/", appointmentController.GetAppointments)
	appointments.Get("/:id", appointmentController.GetAppointment)
	appointments.Post("/", appointmentController.CreateAppointment)
	appointments.Put("/:id", appointmentController.UpdateAppointment)
	appointments.Delete("/:id", appointmentController.DeleteAppointment)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Post("/", middleware.RequireRole("admin", "receptionist"), notificationController.CreateNotification)
	notifications.Patch("/mark-all-read", notificationController.MarkAllAsRead)
	notifications.Post("/register-token", notificationController.RegisterPushToken)
	notifications.Get("/:id", notificationController.GetNotification)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)
	notifications.Delete("/:id", middleware.RequireAdmin(), notificationController.DeleteNotification)

	// Internal news routes
	news := protected.Group("/news")
	news.Get("/", newsController.GetNews)
	news.Get("/:id", newsController.GetNewsPost)
	news.Post("/", middleware.RequireCanPostNews(), newsController.CreateNewsPost)
	news.Put("/:id", middleware.RequireCanPostNews(), newsController.UpdateNewsPost)
	news.Delete("/:id", middleware.RequireCanPostNews(), newsController.DeleteNewsPost)

	// Statistics routes (admin only)
	statistics := protected.Group("/statistics", middleware.RequireAdmin())
	statistics.Get("/members", statisticsController.GetMemberStatistics)
	statistics.Get("/revenue", statisticsController.GetRevenueStatistics)
	statistics.Get("/classes", statisticsController.GetClassStatistics)
	statistics.Get("/class-summary", statisticsController.GetClassSummary)
	statistics.Get("/dashboard-overview", statisticsController.GetDashboardOverview)
	statistics.Get("/class-performance", statisticsController.GetClassPerformance)
	statistics.Get("/class-members", statisticsController.GetClassMembers)
	statistics.Get("/export", statisticsController.ExportStatistics)
}
