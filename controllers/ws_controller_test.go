package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/egnner/project-delivery-sub001/models"
	"github.com/egnner/project-delivery-sub001/services"
)

func orderSnapshot(id uint) *models.Order {
	return &models.Order{ID: id}
}

func newSocketRouter(auth gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/orders", CreateOrder)
	v1.GET("/orders/:id/ws", OrderSocket)

	staff := v1.Group("/staff")
	staff.Use(auth)
	staff.GET("/ws", StaffSocket)
	return router
}

func dialSocket(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket %s: %v", path, err)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) services.Event {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read websocket event: %v", err)
	}

	var event services.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("Event payload is not valid JSON: %v", err)
	}
	return event
}

func TestOrderSocketReceivesOwnEventsOnly(t *testing.T) {
	db, _ := setupControllerTest(t)
	staff := createStaffUser(t, db)

	// Route events through the real hub for this test
	hub := services.GetHub()
	service := services.NewOrderService(hub)
	service.SetHoursSource(func() services.OpeningHours { return nil })
	services.SetOrderService(service)

	router := newSocketRouter(fakeAuth(staff.Auth0ID))
	server := httptest.NewServer(router)
	defer server.Close()

	// Two orders exist
	first := postJSON(router, "POST", "/api/v1/orders", validOrderBody())
	assert.Equal(t, http.StatusCreated, first.Code)
	second := postJSON(router, "POST", "/api/v1/orders", validOrderBody())
	assert.Equal(t, http.StatusCreated, second.Code)

	conn := dialSocket(t, server, "/api/v1/orders/1/ws")
	defer conn.Close()

	// Give the hub a moment to register the subscription
	time.Sleep(50 * time.Millisecond)

	// An event for order 2 must not reach the watcher of order 1
	hub.Publish(services.Event{Kind: services.EventStatusUpdated, Order: orderSnapshot(2), Message: "other order"})
	hub.Publish(services.Event{Kind: services.EventStatusUpdated, Order: orderSnapshot(1), Message: "watched order"})

	event := readEvent(t, conn)
	assert.Equal(t, services.EventStatusUpdated, event.Kind)
	assert.Equal(t, uint(1), event.Order.ID)
	assert.Equal(t, "watched order", event.Message)
}

func TestStaffSocketReceivesAllOrders(t *testing.T) {
	db, _ := setupControllerTest(t)
	staff := createStaffUser(t, db)

	hub := services.GetHub()
	router := newSocketRouter(fakeAuth(staff.Auth0ID))
	server := httptest.NewServer(router)
	defer server.Close()

	conn := dialSocket(t, server, "/api/v1/staff/ws")
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	hub.Publish(services.Event{Kind: services.EventOrderCreated, Order: orderSnapshot(7), Message: "first"})
	hub.Publish(services.Event{Kind: services.EventPaymentConfirmed, Order: orderSnapshot(42), Message: "second"})

	first := readEvent(t, conn)
	assert.Equal(t, uint(7), first.Order.ID)
	second := readEvent(t, conn)
	assert.Equal(t, uint(42), second.Order.ID)
}

func TestOrderSocketRejectsUnknownOrder(t *testing.T) {
	setupControllerTest(t)
	router := newSocketRouter(fakeAuth("auth0|staff123"))
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/orders/999/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	assert.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
}
