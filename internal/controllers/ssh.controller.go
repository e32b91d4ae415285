package controllers

import (
	"log"
	"net/http"

	"opsdeck/internal/middleware"
	"opsdeck/internal/models"
	"opsdeck/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ListSSHConnections returns all saved connection profiles
func ListSSHConnections(c *gin.Context) {
	connections := services.GetStore().SSHConnections()
	c.JSON(http.StatusOK, gin.H{
		"connections": connections,
		"count":       len(connections),
	})
}

// AddSSHConnection saves a new connection profile. Passwords are not
// accepted here; they travel with each dial request instead.
func AddSSHConnection(c *gin.Context) {
	var conn models.SSHConnection
	if err := c.ShouldBindJSON(&conn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn.ID = uuid.NewString()
	if conn.Port == 0 {
		conn.Port = 22
	}

	if err := services.GetStore().AddSSHConnection(conn); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, conn)
}

// UpdateSSHConnection replaces a saved profile
func UpdateSSHConnection(c *gin.Context) {
	var conn models.SSHConnection
	if err := c.ShouldBindJSON(&conn); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn.ID = c.Param("id")
	if conn.Port == 0 {
		conn.Port = 22
	}

	if err := services.GetStore().UpdateSSHConnection(conn); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conn)
}

// DeleteSSHConnection removes a saved profile
func DeleteSSHConnection(c *gin.Context) {
	id := c.Param("id")
	if err := services.GetStore().DeleteSSHConnection(id); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

// TestSSHConnection dials the target, runs a probe command and disconnects
func TestSSHConnection(c *gin.Context) {
	var req models.SSHDialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.GetSSHManager().TestConnection(req); err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			// Dial and auth failures are the remote side's doing
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"reachable": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reachable": true})
}

// ExecSSHCommand runs one command over a fresh connection and returns
// its combined output. A nonzero remote exit code is a normal result.
func ExecSSHCommand(c *gin.Context) {
	var req models.SSHExecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := services.GetSSHManager().Exec(req)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// OpenSSHSession starts a new interactive remote shell
func OpenSSHSession(c *gin.Context) {
	var req models.SSHDialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := services.GetSSHManager().OpenSession(req)
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	info := session.Info()
	if middleware.GlobalSecurityLogger != nil {
		middleware.GlobalSecurityLogger.LogSessionOpened(c.ClientIP(), info.Target)
	}

	c.JSON(http.StatusCreated, info)
}

// ListSSHSessions returns all active interactive sessions
func ListSSHSessions(c *gin.Context) {
	sessions := services.GetSSHManager().ListSessions()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// WriteSSHSessionInput sends a line to a session's stdin
func WriteSSHSessionInput(c *gin.Context) {
	var req models.SSHInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := services.GetSSHManager().GetSession(c.Param("id"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if err := session.WriteInput(req.Input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"written": true})
}

// CloseSSHSession tears down an interactive session
func CloseSSHSession(c *gin.Context) {
	id := c.Param("id")
	if err := services.GetSSHManager().CloseSession(id); err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "closed": true})
}

// AttachSSHSession upgrades to a WebSocket and streams the session's
// output. Text frames from the client are written to the session stdin.
func AttachSSHSession(c *gin.Context) {
	session, err := services.GetSSHManager().GetSession(c.Param("id"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[SSH] WebSocket upgrade error: %v", err)
		return
	}

	listenerID := uuid.NewString()
	scrollback, output := session.Attach(listenerID)

	done := make(chan struct{})

	go func() {
		defer close(done)
		defer ws.Close()

		if len(scrollback) > 0 {
			if err := ws.WriteMessage(websocket.BinaryMessage, scrollback); err != nil {
				return
			}
		}

		for chunk := range output {
			if err := ws.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
				return
			}
		}

		// Session ended
		ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
	}()

	go func() {
		defer session.Detach(listenerID)
		defer ws.Close()

		for {
			select {
			case <-done:
				return
			default:
			}

			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			if len(data) == 0 {
				continue
			}
			if err := session.WriteInput(string(data)); err != nil {
				return
			}
		}
	}()
}
