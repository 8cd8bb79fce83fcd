package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alnah/studynotes/internal/pipeline"
)

// Websocket message types sent to the client.
const (
	msgStage  = "stage"
	msgResult = "result"
	msgError  = "error"
)

const wsWriteTimeout = 10 * time.Second

// wsMessage is one server-to-client frame. Data is base64 in JSON.
type wsMessage struct {
	Type     string     `json:"type"`
	RunID    string     `json:"run_id,omitempty"`
	Stage    string     `json:"stage,omitempty"`
	Detail   string     `json:"detail,omitempty"`
	Format   string     `json:"format,omitempty"`
	Data     []byte     `json:"data,omitempty"`
	Failures int        `json:"failures,omitempty"`
	Error    *errorBody `json:"error,omitempty"`
}

// wsConn serializes writes; stage events may arrive from several goroutines.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) send(m wsMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return w.conn.WriteJSON(m)
}

// wsNotes reads one Params message, streams stage events and ends with a
// result or error frame before closing.
func (s *Server) wsNotes(c *gin.Context) {
	ctx := c.Request.Context()
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn(ctx, "websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.maxBody)

	ws := &wsConn{conn: conn}

	_, data, err := conn.ReadMessage()
	if err != nil {
		s.log.Warn(ctx, "websocket read failed: %v", err)
		return
	}

	var params pipeline.Params
	if err := json.Unmarshal(data, &params); err != nil {
		s.sendError(ctx, ws, badRequest(err))
		return
	}
	req, err := params.Request()
	if err != nil {
		s.sendError(ctx, ws, err)
		return
	}
	req.Progress = func(ev pipeline.Event) {
		if err := ws.send(wsMessage{Type: msgStage, RunID: ev.RunID, Stage: ev.Stage, Detail: ev.Detail}); err != nil {
			s.log.Debug(ctx, "websocket stage send failed: %v", err)
		}
	}

	res, err := s.runner.Run(ctx, req)
	if err != nil {
		s.sendError(ctx, ws, err)
		return
	}
	if err := ws.send(wsMessage{
		Type:     msgResult,
		RunID:    res.RunID,
		Format:   res.Format.String(),
		Data:     res.Output,
		Failures: len(res.Failures),
	}); err != nil {
		s.log.Warn(ctx, "websocket result send failed: %v", err)
		return
	}
	ws.mu.Lock()
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
	ws.mu.Unlock()
}

func (s *Server) sendError(ctx context.Context, ws *wsConn, err error) {
	body := newErrorBody(err)
	if sendErr := ws.send(wsMessage{Type: msgError, Error: &body}); sendErr != nil {
		s.log.Debug(ctx, "websocket error send failed: %v", sendErr)
	}
}
