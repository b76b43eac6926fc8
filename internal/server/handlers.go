package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dbsmedya/fedsearch/internal/federation"
	"github.com/dbsmedya/fedsearch/internal/query"
	"github.com/dbsmedya/fedsearch/internal/registry"
)

// Service identity reported by /service-info.
const (
	ServiceOrganization = "dbsmedya"
	ServiceArtifact     = "federation"
)

// Version is stamped at build time.
var Version = "dev"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleServiceInfo(c *gin.Context) {
	serviceID := s.cfg.Node.ServiceID
	if serviceID == "" {
		serviceID = fmt.Sprintf("%s:%s:%s", ServiceOrganization, ServiceArtifact, uuid.NewString())
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           serviceID,
		"name":         "Federated Dataset Search",
		"type":         fmt.Sprintf("%s:%s:%s", ServiceOrganization, ServiceArtifact, Version),
		"organization": ServiceOrganization,
		"artifact":     ServiceArtifact,
		"version":      Version,
		"url":          s.cfg.Node.BaseURL,
	})
}

func (s *Server) handleListPeers(c *gin.Context) {
	peers, err := s.peers.ListPeers(c.Request.Context())
	if err != nil {
		s.logger.Errorw("Failed to list peers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list peers"})
		return
	}
	if peers == nil {
		peers = []registry.Peer{}
	}
	c.JSON(http.StatusOK, gin.H{"peers": peers})
}

func (s *Server) handleAddPeer(c *gin.Context) {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}
	if strings.TrimSpace(body.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	if err := s.peers.UpsertPeer(c.Request.Context(), body.URL); err != nil {
		s.logger.Errorw("Failed to record peer", "url", body.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record peer"})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleDatasetSearch serves both search endpoints. The private variant
// returns full records, the combined join query, and the array resolve
// paths; the public variant forces internal results off so peers only learn
// whether tables matched.
func (s *Server) handleDatasetSearch(private bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		if err := validateSearchRequest(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var req struct {
			Dataset         json.RawMessage `json:"dataset"`
			DataTypeQueries json.RawMessage `json:"data_type_queries"`
			JoinQuery       interface{}     `json:"join_query"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
			return
		}

		dataset, err := federation.ParseDataset(req.Dataset)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dataTypeQueries, err := query.ParseDataTypeQueries(req.DataTypeQueries)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var joinQuery query.Node
		if req.JoinQuery != nil {
			joinQuery, err = query.FromValue(req.JoinQuery)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid join query: %v", err)})
				return
			}
		}

		schema := federation.NewObjectSchema()
		outcome, err := s.runner.Run(
			c.Request.Context(), schema, dataset, joinQuery, dataTypeQueries,
			private, c.GetHeader("Authorization"))
		if err != nil {
			s.logger.Errorw("Dataset search failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "dataset search failed"})
			return
		}

		if !private {
			matched := make(map[string]bool, len(outcome.ResultsByDataType))
			for dataType, results := range outcome.ResultsByDataType {
				matched[dataType] = len(results) > 0
			}
			c.JSON(http.StatusOK, gin.H{
				"results":      matched,
				"table_errors": outcome.TableErrors,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"results":             outcome.ResultsByDataType,
			"join_query":          outcome.JoinQuery,
			"array_resolve_paths": outcome.ArrayResolvePaths,
			"table_errors":        outcome.TableErrors,
			"schema":              schema,
		})
	}
}
