package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/services"
)

type WeeklyHandler struct {
	store *services.TrackingStore
}

func NewWeeklyHandler(store *services.TrackingStore) *WeeklyHandler {
	return &WeeklyHandler{store: store}
}

type addTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type weeklyTextRequest struct {
	Text string `json:"text"`
}

func (h *WeeklyHandler) RegisterRoutes(router *gin.RouterGroup) {
	weeks := router.Group("/weeks/:date")
	weeks.Use(requireDateParam("date"))
	{
		weeks.GET("", h.Get)
		weeks.POST("/tasks", h.AddTask)
		weeks.PUT("/focus", h.UpdateFocus)
		weeks.PUT("/reflections", h.UpdateReflections)
	}

	tasks := router.Group("/tasks")
	{
		tasks.GET("", h.List)
		tasks.POST("/:id/toggle", h.Toggle)
		tasks.POST("/:id/importance", h.ToggleImportance)
		tasks.POST("/:id/star", h.ToggleStar)
		tasks.DELETE("/:id", h.Remove)
	}
}

func (h *WeeklyHandler) Get(c *gin.Context) {
	view, err := h.store.WeekView(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *WeeklyHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.WeeklyTasks())
}

func (h *WeeklyHandler) AddTask(c *gin.Context) {
	var req addTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, ok := h.store.AddWeeklyTask(c.Request.Context(), req.Title, c.Param("date"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task title cannot be empty"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *WeeklyHandler) Toggle(c *gin.Context) {
	task, ok := h.store.ToggleWeeklyTask(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *WeeklyHandler) ToggleImportance(c *gin.Context) {
	task, ok := h.store.ToggleWeeklyTaskImportance(c.Request.Context(), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *WeeklyHandler) ToggleStar(c *gin.Context) {
	date := c.Query("date")
	if !optionalDateValid(date) || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidDateMessage})
		return
	}

	task, ok := h.store.ToggleWeeklyTaskStar(c.Request.Context(), c.Param("id"), date)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found in that week"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *WeeklyHandler) Remove(c *gin.Context) {
	if !h.store.RemoveWeeklyTask(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WeeklyHandler) UpdateFocus(c *gin.Context) {
	var req weeklyTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.UpdateWeeklyFocus(c.Request.Context(), c.Param("date"), req.Text)
	c.Status(http.StatusNoContent)
}

func (h *WeeklyHandler) UpdateReflections(c *gin.Context) {
	var req weeklyTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.UpdateWeeklyReflections(c.Request.Context(), c.Param("date"), req.Text)
	c.Status(http.StatusNoContent)
}
