// internal/utils/params_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParsePageParamsDefaults(t *testing.T) {
	params, err := ParsePageParams(testContext(""), 50, 500)
	assert.NoError(t, err)
	assert.Equal(t, 50, params.Take)
	assert.Equal(t, 0, params.Skip)
}

func TestParsePageParams(t *testing.T) {
	params, err := ParsePageParams(testContext("take=10&skip=20"), 50, 500)
	assert.NoError(t, err)
	assert.Equal(t, 10, params.Take)
	assert.Equal(t, 20, params.Skip)
}

func TestParsePageParamsCapsTake(t *testing.T) {
	params, err := ParsePageParams(testContext("take=9999"), 50, 500)
	assert.NoError(t, err)
	assert.Equal(t, 500, params.Take)
}

func TestParsePageParamsRejectsGarbage(t *testing.T) {
	_, err := ParsePageParams(testContext("take=abc"), 50, 500)
	assert.Error(t, err)

	_, err = ParsePageParams(testContext("skip=-1"), 50, 500)
	assert.Error(t, err)

	_, err = ParsePageParams(testContext("take=1.5"), 50, 500)
	assert.Error(t, err)
}

func TestParseUUIDListParam(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := ParseUUIDListParam(testContext("ids="+a.String()+","+b.String()), "ids")
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
}

func TestParseUUIDListParamAbsent(t *testing.T) {
	ids, err := ParseUUIDListParam(testContext(""), "ids")
	assert.NoError(t, err)
	assert.Nil(t, ids)
}

func TestParseUUIDListParamRejectsInvalid(t *testing.T) {
	_, err := ParseUUIDListParam(testContext("ids=not-a-uuid"), "ids")
	assert.Error(t, err)
}

func TestParseTimeParam(t *testing.T) {
	got, err := ParseTimeParam(testContext("since=2026-03-01T12%3A00%3A00Z"), "since")
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, 2026, got.Year())
		assert.Equal(t, 12, got.Hour())
	}

	got, err = ParseTimeParam(testContext("since=2026-03-01"), "since")
	assert.NoError(t, err)
	assert.NotNil(t, got)

	_, err = ParseTimeParam(testContext("since=yesterday"), "since")
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Paginate(items, PageParams{Take: 2}))
	assert.Equal(t, []int{3, 4}, Paginate(items, PageParams{Take: 2, Skip: 2}))
	assert.Equal(t, []int{5}, Paginate(items, PageParams{Take: 2, Skip: 4}))
	assert.Empty(t, Paginate(items, PageParams{Take: 2, Skip: 10}))

	// Zero take returns everything after skip
	assert.Equal(t, []int{4, 5}, Paginate(items, PageParams{Skip: 3}))
}
