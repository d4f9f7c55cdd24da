// handlers/notification_routes.go
package handlers

import (
	"errors"
	"strconv"

	"finance-progression-system/middleware"
	"finance-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, notifications *services.NotificationService) {
	group := app.Group("/notifications", middleware.UserContextMiddleware())

	group.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		unreadOnly := c.Query("unread_only", "false") == "true"
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		list, err := notifications.GetNotifications(userID, unreadOnly, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load notifications",
				"cause": err.Error(),
			})
		}
		unread, err := notifications.UnreadCount(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to count unread notifications",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"notifications": list,
			"unread_count":  unread,
		})
	})

	group.Get("/unread-count", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		count, err := notifications.UnreadCount(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to count unread notifications",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"count": count})
	})

	group.Post("/:id/read", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := notifications.MarkRead(c.Params("id"), userID); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "notification not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to mark notification read",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "notification marked as read"})
	})

	group.Post("/read-all", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := notifications.MarkAllRead(userID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to mark notifications read",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "all notifications marked as read"})
	})

	group.Delete("/:id", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := notifications.DeleteNotification(c.Params("id"), userID); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "notification not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to delete notification",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "notification deleted"})
	})

	group.Delete("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		if err := notifications.ClearAll(userID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to clear notifications",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "all notifications cleared"})
	})

	group.Get("/settings", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		settings, err := notifications.GetSettings(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load settings",
				"cause": err.Error(),
			})
		}
		return c.JSON(settings)
	})

	group.Put("/settings", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var patch services.SettingsPatch
		if err := c.BodyParser(&patch); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		settings, err := notifications.UpdateSettings(userID, patch)
		if err != nil {
			if errors.Is(err, services.ErrInvalidSettings) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid settings",
					"cause": err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update settings",
				"cause": err.Error(),
			})
		}
		return c.JSON(settings)
	})
}
