package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"legalsense/logic/extract"
	"legalsense/storage/postgres"
)

func TestFailMsg(t *testing.T) {
	assert.Equal(t, "document not found", failMsg(postgres.ErrNotFound))
	// 包装过的 ErrNotFound 也要识别
	assert.Equal(t, "document not found", failMsg(fmt.Errorf("load text: %w", postgres.ErrNotFound)))
	// 其他错误原样透出，不能伪装成 not found
	assert.Equal(t, "connection refused", failMsg(errors.New("connection refused")))
}

func TestHealthLocalOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h := NewDocumentHandler(nil, nil, nil, nil, extract.NewAnalyzer(nil))
	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "local_only")
}
