package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtp-gov/portal-api/internal/dto"
	"github.com/dtp-gov/portal-api/internal/middleware"
	"github.com/dtp-gov/portal-api/internal/models"
	appErrors "github.com/dtp-gov/portal-api/pkg/errors"
)

type settingServiceMock struct {
	getResp       *dto.SettingResponse
	putResp       *dto.SettingResponse
	putErr        error
	sections      []models.SectionState
	moveResp      []models.Section
	moveErr       error
	visibilityErr error
	lastKey       string
	lastValue     json.RawMessage
	lastVisible   bool
	lastDirection string
}

func (m *settingServiceMock) Get(ctx context.Context, key string) (*dto.SettingResponse, error) {
	m.lastKey = key
	return m.getResp, nil
}

func (m *settingServiceMock) Put(ctx context.Context, key string, value json.RawMessage, actor *models.JWTClaims) (*dto.SettingResponse, error) {
	m.lastKey = key
	m.lastValue = value
	return m.putResp, m.putErr
}

func (m *settingServiceMock) Sections(ctx context.Context) ([]models.SectionState, error) {
	return m.sections, nil
}

func (m *settingServiceMock) SetVisibility(ctx context.Context, key string, visible bool, actor *models.JWTClaims) error {
	m.lastKey = key
	m.lastVisible = visible
	return m.visibilityErr
}

func (m *settingServiceMock) MoveSection(ctx context.Context, key, direction string, actor *models.JWTClaims) ([]models.Section, error) {
	m.lastKey = key
	m.lastDirection = direction
	return m.moveResp, m.moveErr
}

func TestSettingHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &settingServiceMock{
		getResp: &dto.SettingResponse{Key: "site_banner", Value: json.RawMessage(`"welcome"`)},
	}
	handler := NewSettingHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/settings/site_banner", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "key", Value: "site_banner"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "site_banner", mockSvc.lastKey)
	assert.Contains(t, w.Body.String(), `"welcome"`)
}

func TestSettingHandlerPut(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &settingServiceMock{
		putResp: &dto.SettingResponse{Key: "site_banner", Value: json.RawMessage(`"hi"`)},
	}
	handler := NewSettingHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/settings/site_banner", bytes.NewBufferString(`{"value":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "key", Value: "site_banner"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.Put(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"hi"`, string(mockSvc.lastValue))
}

func TestSettingHandlerPutInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSettingHandler(&settingServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/settings/site_banner", bytes.NewBufferString(`{"value":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Put(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingHandlerSetVisibilityRequiresFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSettingHandler(&settingServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/settings/sections/projects/visibility", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "key", Value: "projects"}}

	handler.SetVisibility(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingHandlerSetVisibility(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &settingServiceMock{}
	handler := NewSettingHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPut, "/settings/sections/projects/visibility", bytes.NewBufferString(`{"visible":false}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "key", Value: "projects"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.SetVisibility(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "projects", mockSvc.lastKey)
	assert.False(t, mockSvc.lastVisible)
}

func TestSettingHandlerMoveSection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &settingServiceMock{
		moveResp: []models.Section{models.SectionEvents, models.SectionInitiatives},
	}
	handler := NewSettingHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/settings/sections/events/move", bytes.NewBufferString(`{"direction":"up"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "key", Value: "events"}}

	handler.MoveSection(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "up", mockSvc.lastDirection)
}

func TestSettingHandlerMoveSectionServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &settingServiceMock{moveErr: appErrors.Clone(appErrors.ErrValidation, "unknown section")}
	handler := NewSettingHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/settings/sections/nope/move", bytes.NewBufferString(`{"direction":"up"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "key", Value: "nope"}}

	handler.MoveSection(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
