package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) index(c *gin.Context) {
	filter := models.TaskFilter{
		Status:   c.DefaultQuery("status", models.FilterAll),
		Priority: c.DefaultQuery("priority", models.FilterAll),
		Search:   c.Query("search"),
	}

	tasks, summary, err := s.tasks.List(c.Request.Context(), currentUser(c), filter)
	if err != nil {
		s.internalError(c, err)
		return
	}

	s.render(c, "index.html", gin.H{
		"Title":      "Tasks",
		"Tasks":      tasks,
		"Summary":    summary,
		"Filter":     filter,
		"Statuses":   models.Statuses,
		"Priorities": models.Priorities,
	})
}

func (s *Server) createTask(c *gin.Context) {
	_, err := s.tasks.Create(c.Request.Context(), currentUser(c), taskInput(c))
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, common.ErrorValidation):
		s.flash(c, flashError, "Title is required")
		c.Redirect(http.StatusFound, "/")
	default:
		s.internalError(c, err)
	}
}

func (s *Server) markDone(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := s.tasks.MarkDone(c.Request.Context(), currentUser(c), id); err != nil {
		s.internalError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) deleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := s.tasks.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		s.internalError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) editPage(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := s.tasks.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.String(http.StatusNotFound, "task not found")
			return
		}
		s.internalError(c, err)
		return
	}
	s.render(c, "edit.html", gin.H{
		"Title":      "Edit task",
		"Task":       task,
		"Priorities": models.Priorities,
	})
}

func (s *Server) editTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	err := s.tasks.Update(c.Request.Context(), currentUser(c), id, taskInput(c))
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, common.ErrorValidation):
		s.flash(c, flashError, "Title is required")
		c.Redirect(http.StatusFound, "/edit/"+c.Param("id"))
	default:
		s.internalError(c, err)
	}
}

func taskInput(c *gin.Context) models.TaskInput {
	return models.TaskInput{
		Title:    c.PostForm("title"),
		Subject:  c.PostForm("subject"),
		DueDate:  c.PostForm("due_date"),
		Priority: models.Priority(c.PostForm("priority")),
	}
}

// taskID answers 404 itself when the id is not a positive integer.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "task not found")
		return 0, false
	}
	return id, true
}
