package payments

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"classfit/internal/logger"
)

type PaymentResponse struct {
	TransactionID string      `json:"transactionId"`
	Status        string      `json:"status"`
	Message       string      `json:"message"`
	ReceivedData  interface{} `json:"receivedData"`
}

type paymentError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

const infoPage = `<!DOCTYPE html>
<html>
<head><title>ClassFit Payments (Mock)</title></head>
<body>
<h1>ClassFit Mock Payment Server</h1>
<p>This server simulates a payment provider. No real money moves.</p>
<p>POST JSON with <code>userId</code> and <code>amount</code> to <code>/api/v1/payments</code>.</p>
</body>
</html>`

// Info serves a small HTML page describing the mock endpoint.
func (h *Handler) Info(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, infoPage)
}

// falsy reports whether a decoded JSON value counts as missing. Absent keys
// decode to nil, numbers to float64, so the set is nil, "", 0 and false.
func falsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case bool:
		return !t
	}
	return false
}

// ProcessPayment accepts any JSON body, requires userId and amount, and
// fabricates a successful transaction.
func (h *Handler) ProcessPayment(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, paymentError{
			Status:  "error",
			Message: "Missing userId or amount",
		})
		return
	}

	userID := body["userId"]
	amount := body["amount"]
	if falsy(userID) || falsy(amount) {
		c.JSON(http.StatusBadRequest, paymentError{
			Status:  "error",
			Message: "Missing userId or amount",
		})
		return
	}

	txnID := fmt.Sprintf("fake-txn-%d", time.Now().UnixMilli())
	logger.Infof("Mock payment processed: %s for user %v amount %v", txnID, userID, amount)

	c.JSON(http.StatusOK, PaymentResponse{
		TransactionID: txnID,
		Status:        "success",
		Message:       "Payment processed successfully (MOCK DATA)",
		ReceivedData:  body,
	})
}

// Routes mounts the mock payment endpoints on the given engine.
func Routes(router *gin.Engine) {
	h := NewHandler()
	router.GET("/", h.Info)
	router.POST("/api/v1/payments", h.ProcessPayment)
}
