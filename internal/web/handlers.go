package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todo/internal/app"
	"todo/internal/service"
)

type rowView struct {
	Position int
	ID       string
	Name     string
}

type pageView struct {
	Rows      []rowView
	FormValue string
	Status    string
	Loaded    bool
}

// ensureLoaded runs the one initial fetch for a session. The caller holds
// sess.mu.
func (s *Server) ensureLoaded(c *gin.Context, sess *session) error {
	if sess.composer.Loaded() {
		return nil
	}
	return sess.composer.Apply(sess.composer.Fetch(c.Request.Context()))
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	status := sess.flash
	sess.flash = ""
	if err := s.ensureLoaded(c, sess); err != nil {
		status = app.UserMessage(err)
	}

	tasks := sess.composer.Tasks()
	rows := make([]rowView, len(tasks))
	for i, task := range tasks {
		rows[i] = rowView{Position: i, ID: task.ID, Name: task.Name}
	}

	c.HTML(http.StatusOK, "index.html", pageView{
		Rows:      rows,
		FormValue: sess.formValue,
		Status:    status,
		Loaded:    sess.composer.Loaded(),
	})
}

func (s *Server) handleAdd(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	text := c.PostForm("taskName")
	sess.formValue = text

	result := sess.composer.Create(c.Request.Context(), text)
	if err := sess.composer.Apply(result); err != nil {
		sess.flash = app.UserMessage(err)
	} else if s.cfg.ClearOnSubmit {
		sess.formValue = ""
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleDelete(c *gin.Context) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 0 {
		c.String(http.StatusBadRequest, "invalid position")
		return
	}

	sess := sessionFrom(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	removed, remote, err := sess.composer.Remove(position, c.PostForm("id"))
	if err != nil {
		sess.flash = app.UserMessage(err)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if remote {
		if err := sess.composer.DeleteRemote(c.Request.Context(), removed.ID); err != nil {
			s.log.Error().Err(err).Str("id", removed.ID).Msg("remote delete failed")
			sess.flash = app.UserMessage(err)
		}
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleListJSON(c *gin.Context) {
	sess := sessionFrom(c)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.ensureLoaded(c, sess); err != nil {
		status := http.StatusBadGateway
		if service.IsKind(err, service.KindTransport) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": app.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": sess.composer.Tasks()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
