package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tavanbogd/nextaction/internal/pipeline"
	"github.com/tavanbogd/nextaction/internal/store"
)

// The websocket transport speaks the same request and response shapes as the
// REST routes. It exists for frontends that keep one connection open while an
// employee works through a call list; each frame is handled independently.

type wsRequest struct {
	Type       string `json:"type"`
	CustomerID string `json:"customer_id,omitempty"`
	EmpID      string `json:"emp_id,omitempty"`
}

type wsResult struct {
	Type           string                 `json:"type"`
	Recommendation *store.Recommendation  `json:"recommendation,omitempty"`
	Results        []store.Recommendation `json:"results,omitempty"`
	Count          int                    `json:"count"`
}

type wsError struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				// Non-browser clients often omit Origin. Allow them.
				return true
			}
			for _, allowed := range s.cfg.AllowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(1 << 20)
	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := s.dispatchWS(r, conn, req); err != nil {
			s.logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

func (s *Server) dispatchWS(r *http.Request, conn *websocket.Conn, req wsRequest) error {
	switch req.Type {
	case "next_action":
		if strings.TrimSpace(req.CustomerID) == "" {
			return conn.WriteJSON(wsError{Type: "error", Code: "invalid_request", Error: "customer_id required"})
		}
		if strings.TrimSpace(req.EmpID) == "" {
			return conn.WriteJSON(wsError{Type: "error", Code: "invalid_request", Error: "emp_id required"})
		}
		rec, err := s.pipeline.NextAction(r.Context(), req.CustomerID, req.EmpID)
		if err != nil {
			if errors.Is(err, pipeline.ErrNoData) {
				s.metrics.Requests.WithLabelValues("no_data").Inc()
				return conn.WriteJSON(wsError{Type: "error", Code: "no_data", Error: "Өгөгдөл олдсонгүй"})
			}
			s.logger.Error("next action failed", zap.String("customer_id", req.CustomerID), zap.Error(err))
			s.metrics.Requests.WithLabelValues("error").Inc()
			return conn.WriteJSON(wsError{Type: "error", Code: "pipeline_error", Error: "recommendation could not be generated"})
		}
		s.metrics.Requests.WithLabelValues("ok").Inc()
		return conn.WriteJSON(wsResult{Type: "next_action_result", Recommendation: &rec, Count: 1})

	case "filter_response":
		if strings.TrimSpace(req.EmpID) == "" {
			return conn.WriteJSON(wsError{Type: "error", Code: "invalid_request", Error: "emp_id required"})
		}
		results, err := s.pipeline.ListByEmployee(r.Context(), req.EmpID)
		if err != nil {
			s.logger.Error("recommendation query failed", zap.String("emp_id", req.EmpID), zap.Error(err))
			return conn.WriteJSON(wsError{Type: "error", Code: "store_error", Error: "recommendations could not be listed"})
		}
		return conn.WriteJSON(wsResult{Type: "filter_response_result", Results: results, Count: len(results)})

	default:
		return conn.WriteJSON(wsError{Type: "error", Code: "invalid_request", Error: "unknown message type"})
	}
}
