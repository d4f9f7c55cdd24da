// handlers/progression_routes.go
package handlers

import (
	"errors"
	"strconv"

	"finance-progression-system/middleware"
	"finance-progression-system/models"
	"finance-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, engagement *services.EngagementService) {
	progression := engagement.Progression

	// 🔐 Secured routes — require user context forwarded by the Gateway
	securedGroup := app.Group("/game", middleware.UserContextMiddleware())

	securedGroup.Get("/dashboard", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		dashboard, err := progression.GetDashboard(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load dashboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(dashboard)
	})

	securedGroup.Get("/milestones", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var milestones []models.Milestone
		if err := progression.DB.Where("is_active = ?", true).
			Order("category, criteria_value").
			Find(&milestones).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load milestones",
				"cause": err.Error(),
			})
		}

		var achievements []models.UserAchievement
		if err := progression.DB.Where("external_user_id = ?", userID).
			Find(&achievements).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load achievements",
				"cause": err.Error(),
			})
		}
		byMilestone := make(map[string]models.UserAchievement, len(achievements))
		for _, a := range achievements {
			byMilestone[a.MilestoneID] = a
		}

		// Group catalog + per-user progress by category
		grouped := make(map[string][]fiber.Map)
		for _, m := range milestones {
			entry := fiber.Map{
				"id":             m.ID,
				"name":           m.Name,
				"description":    m.Description,
				"criteria_type":  m.CriteriaType,
				"criteria_value": m.CriteriaValue,
				"points_reward":  m.PointsReward,
				"tier":           m.Tier,
				"progress_value": int64(0),
				"is_completed":   false,
			}
			if a, ok := byMilestone[m.ID]; ok {
				entry["progress_value"] = a.ProgressValue
				entry["is_completed"] = a.IsCompleted
				entry["achieved_at"] = a.AchievedAt
			}
			grouped[m.Category] = append(grouped[m.Category], entry)
		}
		return c.JSON(grouped)
	})

	securedGroup.Get("/leaderboard", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "100"))

		top, err := progression.TopUsers(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load leaderboard",
				"cause": err.Error(),
			})
		}
		rank, err := progression.LeaderboardPosition(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute rank",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"top_users": top,
			"user_rank": rank,
		})
	})

	securedGroup.Get("/badges", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var userBadges []models.UserBadge
		if err := progression.DB.Preload("Badge").
			Where("external_user_id = ?", userID).
			Order("earned_at DESC").
			Find(&userBadges).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get badges",
				"cause": err.Error(),
			})
		}
		return c.JSON(userBadges)
	})

	// Engagement hooks — called by the finance CRUD service after a write
	securedGroup.Post("/events/:event", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Category     string  `json:"category"`
			Amount       float64 `json:"amount"`
			TotalSavings int64   `json:"total_savings"`
		}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid JSON",
					"cause": err.Error(),
				})
			}
		}

		var result *services.ActivityResult
		var err error
		switch c.Params("event") {
		case "transaction-added":
			result, err = engagement.OnTransactionAdded(userID, req.Category, req.Amount)
		case "budget-created":
			result, err = engagement.OnBudgetCreated(userID)
		case "investment-added":
			result, err = engagement.OnInvestmentAdded(userID)
		case "goal-created":
			result, err = engagement.OnGoalCreated(userID)
		case "goal-completed":
			result, err = engagement.OnGoalCompleted(userID)
		case "savings-updated":
			result, err = engagement.OnSavingsMilestone(userID, req.TotalSavings)
		default:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "unknown event",
			})
		}
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "user not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "event processing failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/points/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID       string `json:"user_id"`
			Points       int64  `json:"points"`
			ActivityType string `json:"activity_type"`
			Reason       string `json:"reason"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.UserID == "" || req.Points <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user_id and a positive points value are required",
			})
		}
		activityType := req.ActivityType
		if activityType == "" {
			activityType = "admin_grant"
		}

		result, err := progression.AwardPoints(req.UserID, req.Points, activityType, req.Reason)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "user not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "points award failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"message": "points granted successfully",
			"user_id": req.UserID,
			"result":  result,
		})
	})
}
