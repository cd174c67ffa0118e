package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/services"
)

type HabitHandler struct {
	store *services.TrackingStore
}

func NewHabitHandler(store *services.TrackingStore) *HabitHandler {
	return &HabitHandler{
		store: store,
	}
}

type createHabitRequest struct {
	Title        string `json:"title" binding:"required"`
	Target       int    `json:"target"`
	SpecificDate string `json:"specific_date"`
	StartDate    string `json:"start_date"`
}

type updateHabitRequest struct {
	Title  string `json:"title" binding:"required"`
	Target int    `json:"target"`
}

type reorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

type moveHabitRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.PUT("/order", h.Reorder)
		habits.PUT("/:id", h.Update)
		habits.POST("/:id/move", h.Move)
		habits.DELETE("/:id", h.Delete)
	}
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !optionalDateValid(req.SpecificDate) || !optionalDateValid(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidDateMessage})
		return
	}

	habit, ok := h.store.AddHabit(c.Request.Context(), services.AddHabitInput{
		Title:        req.Title,
		Target:       req.Target,
		SpecificDate: req.SpecificDate,
		StartDate:    req.StartDate,
	})
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "habit title cannot be empty"})
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Habits())
}

func (h *HabitHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, exists := h.store.Habit(id); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}

	habit, ok := h.store.UpdateHabit(c.Request.Context(), id, req.Title, req.Target)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "habit title cannot be empty"})
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.store.ReorderHabits(c.Request.Context(), req.IDs))
}

func (h *HabitHandler) Move(c *gin.Context) {
	var req moveHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if _, exists := h.store.Habit(id); !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}

	moved := h.store.MoveHabit(c.Request.Context(), id, services.MoveDirection(req.Direction))
	c.JSON(http.StatusOK, gin.H{"moved": moved})
}

// Delete archives or deletes the habit depending on its history. An
// archived habit is also hidden on the given date.
func (h *HabitHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	date := c.Query("date")

	if !optionalDateValid(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidDateMessage})
		return
	}

	ctx := c.Request.Context()

	switch h.store.RemoveHabit(ctx, id, date) {
	case services.RemoveNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
	case services.RemoveArchived:
		if date != "" {
			h.store.SkipHabit(ctx, date, id)
		}
		c.JSON(http.StatusOK, gin.H{"result": services.RemoveArchived})
	default:
		c.Status(http.StatusNoContent)
	}
}
