package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-rituals/internal/core/services"
)

type EntryHandler struct {
	store *services.TrackingStore
}

func NewEntryHandler(store *services.TrackingStore) *EntryHandler {
	return &EntryHandler{store: store}
}

type setProgressRequest struct {
	Value *int `json:"value" binding:"required"`
}

type fieldRequest struct {
	Value string `json:"value"`
}

type addNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	days := router.Group("/days/:date")
	days.Use(requireDateParam("date"))
	{
		days.GET("", h.Get)
		days.DELETE("", h.Reset)
		days.POST("/habits/:id/increment", h.Increment)
		days.PUT("/habits/:id/progress", h.SetProgress)
		days.POST("/habits/:id/skip", h.Skip)
		days.PUT("/fields/:field", h.UpdateField)
		days.POST("/notes", h.AddNote)
		days.PUT("/notes/order", h.ReorderNotes)
		days.DELETE("/notes/:noteId", h.RemoveNote)
	}
}

func (h *EntryHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.DayView(c.Param("date")))
}

func (h *EntryHandler) Reset(c *gin.Context) {
	h.store.ResetDay(c.Request.Context(), c.Param("date"))
	c.Status(http.StatusNoContent)
}

func (h *EntryHandler) Increment(c *gin.Context) {
	date := c.Param("date")
	habitID := c.Param("id")

	progress, ok := h.store.IncrementHabit(c.Request.Context(), date, habitID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit_id": habitID, "date": date, "progress": progress})
}

func (h *EntryHandler) SetProgress(c *gin.Context) {
	var req setProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := c.Param("date")
	habitID := c.Param("id")

	if !h.store.SetHabitProgress(c.Request.Context(), date, habitID, *req.Value) {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}

	entry := h.store.GetCreateDayEntry(date)
	c.JSON(http.StatusOK, gin.H{"habit_id": habitID, "date": date, "progress": entry.ProgressFor(habitID)})
}

func (h *EntryHandler) Skip(c *gin.Context) {
	if !h.store.SkipHabit(c.Request.Context(), c.Param("date"), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EntryHandler) UpdateField(c *gin.Context) {
	field := domain.DayField(c.Param("field"))
	if !field.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown field (must be focus, reflections or todo)"})
		return
	}

	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.UpdateDayField(c.Request.Context(), c.Param("date"), field, req.Value)
	c.Status(http.StatusNoContent)
}

func (h *EntryHandler) AddNote(c *gin.Context) {
	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, ok := h.store.AddNote(c.Request.Context(), c.Param("date"), req.Text)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrNoteEmpty.Error()})
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (h *EntryHandler) RemoveNote(c *gin.Context) {
	if !h.store.RemoveNote(c.Request.Context(), c.Param("date"), c.Param("noteId")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EntryHandler) ReorderNotes(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notes, ok := h.store.ReorderNotes(c.Request.Context(), c.Param("date"), req.IDs)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "day has no notes"})
		return
	}
	c.JSON(http.StatusOK, notes)
}
