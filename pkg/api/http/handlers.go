package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weftlabs/weft/internal/application/unit"
	"github.com/weftlabs/weft/pkg/domain"
	"go.uber.org/zap"
)

// AgentRegisterRequest registers a new execution agent.
type AgentRegisterRequest struct {
	Name         string   `json:"name" binding:"required"`
	Capabilities []string `json:"capabilities"`
}

// PlanExecuteRequest submits a plan for distributed execution.
type PlanExecuteRequest struct {
	Goal  string            `json:"goal" binding:"required"`
	Steps []domain.PlanStep `json:"steps" binding:"required"`
}

// StepResponse summarizes one step's outcome.
type StepResponse struct {
	Success bool        `json:"success"`
	Output  interface{} `json:"output,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PlanExecuteResponse summarizes a distributed plan execution.
type PlanExecuteResponse struct {
	OperationID string         `json:"operation_id"`
	Success     bool           `json:"success"`
	DurationMs  int64          `json:"duration_ms"`
	AgentsUsed  interface{}    `json:"agents_used"`
	Steps       []StepResponse `json:"steps"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details.
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"units":     s.monitor.Snapshot(),
	})
}

// handleRegisterAgent handles agent registration.
func (s *Server) handleRegisterAgent(c *gin.Context) {
	var req AgentRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Error("invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	agent, err := s.dispatcher.RegisterAgent(c.Request.Context(), domain.AgentInfo{
		Name:         req.Name,
		Capabilities: req.Capabilities,
	})
	if err != nil {
		s.logger.Error("failed to register agent", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "REGISTRATION_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, agent)
}

// handleListAgents handles listing registered agents.
func (s *Server) handleListAgents(c *gin.Context) {
	agents, err := s.dispatcher.Registry().List(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to list agents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    "REGISTRY_ERROR",
				Message: "Failed to retrieve agents",
				Details: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agents": agents,
		"total":  len(agents),
	})
}

// handleGetAgent handles getting a specific agent.
func (s *Server) handleGetAgent(c *gin.Context) {
	agentID := c.Param("id")

	agent, err := s.dispatcher.GetAgentStatus(c.Request.Context(), agentID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    "AGENT_NOT_FOUND",
				Message: "Agent not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, agent)
}

// handleListUnits handles listing unit health snapshots.
func (s *Server) handleListUnits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"units": s.monitor.Snapshot(),
	})
}

// handleExecutePlan handles distributed plan execution.
func (s *Server) handleExecutePlan(c *gin.Context) {
	var req PlanExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Error("invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	plan := domain.NewPlan(req.Goal, req.Steps)
	ctx := unit.NewContext(c.Request.Context())

	result, err := s.dispatcher.ExecuteDistributed(ctx, plan)
	if err != nil {
		s.logger.Error("plan execution rejected", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{
				Code:    "EXECUTION_REJECTED",
				Message: err.Error(),
			},
		})
		return
	}

	steps := make([]StepResponse, len(result.StepResults))
	for i, res := range result.StepResults {
		steps[i] = StepResponse{
			Success: res.Success,
			Output:  res.Output,
			Error:   res.ErrorMessage,
		}
	}

	c.JSON(http.StatusOK, PlanExecuteResponse{
		OperationID: result.OperationID,
		Success:     result.Success,
		DurationMs:  result.Duration.Milliseconds(),
		AgentsUsed:  result.Metadata["agents_used"],
		Steps:       steps,
	})
}
