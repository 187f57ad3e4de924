package main

import (
	"bss/src/config"
	"bss/src/db"
	"bss/src/models"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type HTTPTestSuite struct {
	suite.Suite
	DB     *gorm.DB
	router *gin.Engine
}

func (s *HTTPTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	registerValidators()
}

func (s *HTTPTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:api_%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	sqlDB, err := gdb.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(gdb.AutoMigrate(
		&models.Customer{},
		&models.ServiceType{},
		&models.SparePart{},
		&models.AppointmentSlot{},
		&models.ServiceBooking{},
	))
	db.NewDB(gdb)
	s.DB = gdb

	router := setupRouter()
	registerRoutes(router)
	s.router = router
}

func (s *HTTPTestSuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HTTPTestSuite) seedWorkshop() (customerId, serviceTypeId, slotId, partId uint) {
	w := s.request(http.MethodPost, "/api/v1/customers", gin.H{
		"name":       "Jane Porter",
		"email":      "jane@example.com",
		"phone":      "+15550001111",
		"bike_model": "Trek FX 3",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	customerId = uint(gjson.Get(w.Body.String(), "data.id").Uint())

	w = s.request(http.MethodPost, "/api/v1/servicetypes", gin.H{
		"name":                       "Full Tune-Up",
		"estimated_duration_minutes": 60,
		"cost":                       89.99,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	serviceTypeId = uint(gjson.Get(w.Body.String(), "data.id").Uint())

	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	w = s.request(http.MethodPost, "/api/v1/slots", gin.H{
		"start_time": start.Format(config.TIME_PARSE_FORMAT),
		"end_time":   start.Add(time.Hour).Format(config.TIME_PARSE_FORMAT),
		"technician": "Marco",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	slotId = uint(gjson.Get(w.Body.String(), "data.id").Uint())

	w = s.request(http.MethodPost, "/api/v1/spareparts", gin.H{
		"part_name":   "Brake Pads",
		"part_number": "BP-220",
		"quantity":    2,
		"price":       14.50,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	partId = uint(gjson.Get(w.Body.String(), "data.id").Uint())
	return
}

func (s *HTTPTestSuite) TestHealthcheck() {
	w := s.request(http.MethodGet, "/", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
	s.Equal("DENY", w.Header().Get("X-Frame-Options"))
	s.Equal("no-store", w.Header().Get("Cache-Control"))
}

func (s *HTTPTestSuite) TestInternalErrorsAreNotEchoed() {
	sqlDB, err := s.DB.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	w := s.request(http.MethodGet, "/api/v1/customers", nil)
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("internal server error", gjson.Get(w.Body.String(), "error").String())
	s.NotContains(w.Body.String(), "closed")
}

func (s *HTTPTestSuite) TestCustomerValidation() {
	w := s.request(http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "J",
		"email": "not-an-email",
		"phone": "12345",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HTTPTestSuite) TestCustomerCRUD() {
	customerId, _, _, _ := s.seedWorkshop()
	path := fmt.Sprintf("/api/v1/customers/%d", customerId)

	w := s.request(http.MethodGet, path, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Jane Porter", gjson.Get(w.Body.String(), "data.name").String())

	w = s.request(http.MethodPut, path, gin.H{
		"name":       "Jane P. Porter",
		"email":      "jane@example.com",
		"phone":      "+15550001111",
		"bike_model": "Trek FX 4",
	})
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Trek FX 4", gjson.Get(w.Body.String(), "data.bike_model").String())

	w = s.request(http.MethodDelete, path, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodGet, path, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HTTPTestSuite) TestCustomerSearch() {
	s.seedWorkshop()
	w := s.request(http.MethodGet, "/api/v1/customers/search?name=jan", nil)
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(1, gjson.Get(w.Body.String(), "count").Int())

	w = s.request(http.MethodGet, "/api/v1/customers/search?name=zzz", nil)
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(0, gjson.Get(w.Body.String(), "count").Int())
}

func (s *HTTPTestSuite) TestSlotCreatedUnavailable() {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	w := s.request(http.MethodPost, "/api/v1/slots", gin.H{
		"start_time": start.Format(config.TIME_PARSE_FORMAT),
		"end_time":   start.Add(time.Hour).Format(config.TIME_PARSE_FORMAT),
		"technician": "Dana",
		"available":  false,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	slotId := gjson.Get(w.Body.String(), "data.id").Uint()

	w = s.request(http.MethodGet, fmt.Sprintf("/api/v1/slots/%d", slotId), nil)
	s.Equal(http.StatusOK, w.Code)
	s.False(gjson.Get(w.Body.String(), "data.available").Bool())

	w = s.request(http.MethodGet, "/api/v1/slots/available", nil)
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(0, gjson.Get(w.Body.String(), "count").Int())
}

func (s *HTTPTestSuite) TestSlotRejectsInvertedWindow() {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	w := s.request(http.MethodPost, "/api/v1/slots", gin.H{
		"start_time": start.Format(config.TIME_PARSE_FORMAT),
		"end_time":   start.Add(-time.Hour).Format(config.TIME_PARSE_FORMAT),
		"technician": "Marco",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HTTPTestSuite) TestAvailableSlotListing() {
	_, _, slotId, _ := s.seedWorkshop()
	w := s.request(http.MethodGet, "/api/v1/slots/available", nil)
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(1, gjson.Get(w.Body.String(), "count").Int())

	w = s.request(http.MethodGet, "/api/v1/slots/technician/marco", nil)
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(1, gjson.Get(w.Body.String(), "count").Int())
	s.EqualValues(slotId, gjson.Get(w.Body.String(), "data.0.id").Uint())
}

func (s *HTTPTestSuite) TestStockUpdate() {
	_, _, _, partId := s.seedWorkshop()
	path := fmt.Sprintf("/api/v1/spareparts/%d/stock", partId)

	w := s.request(http.MethodPatch, path, gin.H{"quantity": -1})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request(http.MethodPatch, path, gin.H{"quantity": 7})
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(7, gjson.Get(w.Body.String(), "data.quantity").Int())
}

func (s *HTTPTestSuite) TestBookingLifecycle() {
	customerId, serviceTypeId, slotId, partId := s.seedWorkshop()

	w := s.request(http.MethodPost, "/api/v1/bookings", gin.H{
		"customer_id":         customerId,
		"service_type_id":     serviceTypeId,
		"appointment_slot_id": slotId,
		"status":              "PENDING",
		"priority":            "MEDIUM",
		"technician":          "Marco",
		"spare_part_ids":      []uint{partId},
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	body := w.Body.String()
	bookingId := gjson.Get(body, "data.id").Uint()
	s.Contains(gjson.Get(body, "data.status_history.0").String(), "PENDING at ")
	s.False(gjson.Get(body, "data.appointment_slot.available").Bool())
	s.EqualValues(1, gjson.Get(body, "data.spare_parts.#").Int())

	// The slot is now taken for anyone else.
	w = s.request(http.MethodPost, "/api/v1/bookings", gin.H{
		"customer_id":         customerId,
		"service_type_id":     serviceTypeId,
		"appointment_slot_id": slotId,
		"status":              "PENDING",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(gjson.Get(w.Body.String(), "error").String(), "not available")

	path := fmt.Sprintf("/api/v1/bookings/%d", bookingId)
	w = s.request(http.MethodGet, path, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodPut, path, gin.H{
		"customer_id":         customerId,
		"service_type_id":     serviceTypeId,
		"appointment_slot_id": slotId,
		"status":              "IN_PROGRESS",
		"priority":            "HIGH",
		"technician":          "Marco",
		"spare_part_ids":      []uint{partId},
	})
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(2, gjson.Get(w.Body.String(), "data.status_history.#").Int())

	w = s.request(http.MethodGet, "/api/v1/bookings/status/IN_PROGRESS", nil)
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(1, gjson.Get(w.Body.String(), "count").Int())

	w = s.request(http.MethodGet, fmt.Sprintf("/api/v1/bookings/customer/%d", customerId), nil)
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(1, gjson.Get(w.Body.String(), "count").Int())

	w = s.request(http.MethodGet, "/api/v1/bookings/search?customer=jan", nil)
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(1, gjson.Get(w.Body.String(), "count").Int())

	w = s.request(http.MethodDelete, path, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	// Deleting released the slot and restored part stock.
	w = s.request(http.MethodGet, fmt.Sprintf("/api/v1/slots/%d", slotId), nil)
	s.Equal(http.StatusOK, w.Code)
	s.True(gjson.Get(w.Body.String(), "data.available").Bool())

	w = s.request(http.MethodGet, fmt.Sprintf("/api/v1/spareparts/%d", partId), nil)
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(2, gjson.Get(w.Body.String(), "data.quantity").Int())

	w = s.request(http.MethodGet, path, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HTTPTestSuite) TestBookingUnknownReferences() {
	customerId, serviceTypeId, slotId, _ := s.seedWorkshop()

	w := s.request(http.MethodPost, "/api/v1/bookings", gin.H{
		"customer_id":         customerId + 500,
		"service_type_id":     serviceTypeId,
		"appointment_slot_id": slotId,
		"status":              "PENDING",
	})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request(http.MethodGet, "/api/v1/bookings/9999", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HTTPTestSuite) TestBookingOutOfStock() {
	customerId, serviceTypeId, slotId, partId := s.seedWorkshop()
	s.Require().NoError(s.DB.Model(&models.SparePart{}).Where("id = ?", partId).Update("quantity", 0).Error)

	w := s.request(http.MethodPost, "/api/v1/bookings", gin.H{
		"customer_id":         customerId,
		"service_type_id":     serviceTypeId,
		"appointment_slot_id": slotId,
		"status":              "PENDING",
		"spare_part_ids":      []uint{partId},
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(gjson.Get(w.Body.String(), "error").String(), "out of stock")

	// Nothing was committed: the slot is still available.
	w = s.request(http.MethodGet, fmt.Sprintf("/api/v1/slots/%d", slotId), nil)
	s.True(gjson.Get(w.Body.String(), "data.available").Bool())
}

func TestHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPTestSuite))
}
