// internal/tests/api_test.go
package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/tonearm/tonearm-backend/internal/handlers"
	"github.com/tonearm/tonearm-backend/internal/middleware"
)

// APITestSuite exercises the request boundary: authentication checks and
// query parameter validation run before any service or database is touched,
// so these routes are wired with zero-value handlers.
type APITestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.I18nMiddleware())

	salesHandler := handlers.NewSalesHandler(nil)
	supporterHandler := handlers.NewSupporterHandler(nil)
	fundraiserHandler := handlers.NewFundraiserHandler(nil)

	// Authenticated surface
	manage := suite.router.Group("/v1/manage")
	manage.Use(middleware.AuthRequired())
	{
		manage.GET("/sales", salesHandler.ListSales)
	}

	// Public surface with a fake session for parameter tests
	authed := suite.router.Group("/v1")
	authed.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New().String())
		c.Next()
	})
	{
		authed.GET("/sales", salesHandler.ListSales)
		authed.GET("/trackGroups/:id/supporters", supporterHandler.TrackGroupSupporters)
		authed.GET("/artists/:id/supporters", supporterHandler.ArtistSupporters)
		authed.POST("/fundraisers/:id/pledges", fundraiserHandler.CreatePledge)
	}
}

func (suite *APITestSuite) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(suite.T(), err)
	message, _ := body["error"].(string)
	return message
}

func (suite *APITestSuite) TestSalesRequiresAuth() {
	w := suite.get("/v1/manage/sales")

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.NotEmpty(suite.T(), suite.errorBody(w))
}

func (suite *APITestSuite) TestSalesRejectsInvalidTake() {
	w := suite.get("/v1/sales?take=abc")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.NotEmpty(suite.T(), suite.errorBody(w))
}

func (suite *APITestSuite) TestSalesRejectsNegativeSkip() {
	w := suite.get("/v1/sales?skip=-5")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestSalesRejectsMalformedArtistIds() {
	w := suite.get("/v1/sales?artistIds=not-a-uuid")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestSupportersRejectsBadTrackGroupID() {
	w := suite.get("/v1/trackGroups/garbage/supporters")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestSupportersRejectsBadSinceDate() {
	w := suite.get("/v1/trackGroups/" + uuid.New().String() + "/supporters?sinceDate=lastweek")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestArtistSupportersRejectsBadID() {
	w := suite.get("/v1/artists/garbage/supporters")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestCreatePledgeRejectsBadFundraiserID() {
	req, _ := http.NewRequest("POST", "/v1/fundraisers/garbage/pledges", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
