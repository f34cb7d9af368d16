package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/formrobot/formrobot/internal/keyword"
)

var ScreenshotMutex sync.Mutex

// Screenshotter captures the current page as PNG.
type Screenshotter interface {
	Screenshot() ([]byte, error)
}

// APIHandlers contains the handlers for API endpoints
type APIHandlers struct {
	queue   *RequestQueue
	library *keyword.Library
	page    Screenshotter
	debug   bool
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(queue *RequestQueue, library *keyword.Library, page Screenshotter, debug bool) *APIHandlers {
	return &APIHandlers{
		queue:   queue,
		library: library,
		page:    page,
		debug:   debug,
	}
}

// ListKeywords handles GET /v1/keywords.
func (h *APIHandlers) ListKeywords(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"keywords": h.library.KeywordNames(),
	})
}

// RunKeyword handles POST /v1/keywords/run. The request body is
// {"keyword": "...", "args": ["...", ...]}; execution is serialized through
// the queue and the handler blocks until the keyword finishes.
func (h *APIHandlers) RunKeyword(c *gin.Context) {
	rawJson, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request: %v", err), "code": 400})
		return
	}

	keywordResult := gjson.GetBytes(rawJson, "keyword")
	if keywordResult.Type != gjson.String || keywordResult.String() == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Message: "Request body must carry a 'keyword' string",
				Type:    "invalid_request_error",
			},
		})
		return
	}

	args := make([]string, 0)
	for _, arg := range gjson.GetBytes(rawJson, "args").Array() {
		args = append(args, arg.String())
	}

	taskID := uuid.New().String()

	task := &KeywordTask{
		ID:        taskID,
		Keyword:   keywordResult.String(),
		Args:      args,
		Response:  make(chan *TaskResult, 1),
		CreatedAt: time.Now(),
	}

	if err = h.queue.AddTask(task); err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: ErrorDetail{
				Message: fmt.Sprintf("Failed to queue request: %v", err),
				Type:    "server_error",
			},
		})
		return
	}

	select {
	case result := <-task.Response:
		h.writeResult(c, task, result)
	case <-c.Request.Context().Done():
		log.Debugf("Client disconnected while waiting for task %s", taskID)
	case <-time.After(5 * time.Minute):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Error: ErrorDetail{
				Message: "Timed out waiting for keyword execution",
				Type:    "server_error",
			},
		})
	}
}

func (h *APIHandlers) writeResult(c *gin.Context, task *KeywordTask, result *TaskResult) {
	body := []byte(`{}`)
	body, _ = sjson.SetBytes(body, "id", task.ID)
	body, _ = sjson.SetBytes(body, "keyword", task.Keyword)
	body, _ = sjson.SetBytes(body, "status", result.Status)

	if result.Error != nil {
		body, _ = sjson.SetBytes(body, "error.message", result.Error.Error())
		body, _ = sjson.SetBytes(body, "error.kind", result.Kind)
		status := http.StatusInternalServerError
		switch result.Kind {
		case KindArgument:
			status = http.StatusBadRequest
		case KindElementNotFound:
			status = http.StatusNotFound
		case KindVerification, KindMultiplicity:
			status = http.StatusUnprocessableEntity
		}
		c.Data(status, "application/json", body)
		return
	}

	if result.Return != nil {
		body, _ = sjson.SetBytes(body, "return", result.Return)
	}
	c.Data(http.StatusOK, "application/json", body)
}

// TakeScreenshot handles GET /v1/screenshot.
func (h *APIHandlers) TakeScreenshot(c *gin.Context) {
	defer ScreenshotMutex.Unlock()
	ScreenshotMutex.Lock()
	if h.page == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Content-Type", "image/png")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")
	screenshot, err := h.page.Screenshot()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request: %v", err), "code": 500})
		return
	}
	_, _ = c.Writer.Write(screenshot)
}
