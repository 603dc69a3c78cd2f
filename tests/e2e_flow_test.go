package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/erivelton/subscriply/internal/config"
	"github.com/erivelton/subscriply/internal/server"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenPath(t *testing.T) {
	// 1. Setup Infrastructure
	// MongoDB (Container)
	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()

	// Redis (Miniredis for speed/simplicity)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	// Config (Minimal)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key-123"
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Seed.AdminPassword = "test-admin-pass"

	// 2. Initialize App (boot seeding installs the admin account and demo data)
	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     db,
		RedisClient: redisClient,
	})

	// Helper for requests
	request := func(method, path, token string, body interface{}) *http.Response {
		var bodyReader io.Reader
		if body != nil {
			jsonBytes, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(jsonBytes)
		}
		req, _ := http.NewRequest(method, path, bodyReader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	// ==========================================
	// STEP 1: Admin Login (seeded account)
	// ==========================================
	resp := request("POST", "/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "test-admin-pass",
	})
	require.Equal(t, 200, resp.StatusCode)

	var loginData struct {
		User struct {
			ID      string `json:"id"`
			IsAdmin bool   `json:"is_admin"`
		} `json:"user"`
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginData))
	adminToken := loginData.Tokens.AccessToken
	require.NotEmpty(t, adminToken)
	assert.True(t, loginData.User.IsAdmin)

	fmt.Println("✓ Admin Logged In")

	// Wrong password must not leak anything
	resp = request("POST", "/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, 401, resp.StatusCode)

	// ==========================================
	// STEP 2: Create Plan
	// ==========================================
	resp = request("POST", "/v1/plans", adminToken, map[string]interface{}{
		"name":          "Streaming Gold",
		"description":   "Monthly streaming bundle",
		"price":         49.90,
		"cost_price":    19.90,
		"duration_days": 30,
	})
	require.Equal(t, 201, resp.StatusCode)

	var planData map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&planData)
	planID := planData["id"].(string)
	require.NotEmpty(t, planID)

	fmt.Println("✓ Plan Created:", planID)

	// Zero-duration plans are rejected
	resp = request("POST", "/v1/plans", adminToken, map[string]interface{}{
		"name":          "Broken",
		"price":         10,
		"duration_days": 0,
	})
	assert.Equal(t, 400, resp.StatusCode)

	// ==========================================
	// STEP 3: Create Customer + Subscription
	// ==========================================
	resp = request("POST", "/v1/customers", adminToken, map[string]interface{}{
		"name":  "Ana Costa",
		"email": "ana@example.com",
	})
	require.Equal(t, 201, resp.StatusCode)

	var customerData map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&customerData)
	customerID := customerData["id"].(string)

	// Started 10 days ago on a 30-day plan: 20 days should remain
	startDate := time.Now().AddDate(0, 0, -10).UTC()
	resp = request("POST", "/v1/customers/"+customerID+"/subscriptions", adminToken, map[string]interface{}{
		"plan_id":    planID,
		"start_date": startDate.Format(time.RFC3339),
	})
	require.Equal(t, 201, resp.StatusCode)

	var subData map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&subData)
	subID := subData["id"].(string)

	fmt.Println("✓ Customer + Subscription Created")

	// ==========================================
	// STEP 4: Listing derives status and days remaining
	// ==========================================
	resp = request("GET", "/v1/customers", adminToken, nil)
	require.Equal(t, 200, resp.StatusCode)

	var listing []struct {
		ID            string `json:"id"`
		Subscriptions []struct {
			ID            string `json:"id"`
			DaysRemaining int    `json:"days_remaining"`
			Status        string `json:"status"`
		} `json:"subscriptions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))

	var found bool
	for _, c := range listing {
		if c.ID != customerID {
			continue
		}
		found = true
		require.Len(t, c.Subscriptions, 1)
		assert.Equal(t, subID, c.Subscriptions[0].ID)
		assert.Equal(t, "active", c.Subscriptions[0].Status)
		assert.Equal(t, 20, c.Subscriptions[0].DaysRemaining)
	}
	require.True(t, found, "created customer should appear in the listing")

	fmt.Println("✓ Derived Listing Verified")

	// ==========================================
	// STEP 5: Dashboard Summary
	// ==========================================
	resp = request("GET", "/v1/dashboard/summary", adminToken, nil)
	require.Equal(t, 200, resp.StatusCode)

	var summary struct {
		TotalCustomers        int     `json:"total_customers"`
		ActiveSubscriptions   int     `json:"active_subscriptions"`
		ExpectedMonthlyProfit float64 `json:"expected_monthly_profit"`
		ExpectedYearlyProfit  float64 `json:"expected_yearly_profit"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.GreaterOrEqual(t, summary.TotalCustomers, 1)
	assert.GreaterOrEqual(t, summary.ActiveSubscriptions, 1)
	assert.Greater(t, summary.ExpectedMonthlyProfit, 0.0)
	assert.InDelta(t, summary.ExpectedMonthlyProfit*12, summary.ExpectedYearlyProfit, 1e-9)

	fmt.Println("✓ Dashboard Summary Verified")

	// ==========================================
	// STEP 6: Renew Subscription
	// ==========================================
	resp = request("POST", "/v1/customers/"+customerID+"/subscriptions/"+subID+"/renew", adminToken, nil)
	require.Equal(t, 200, resp.StatusCode)

	var renewed struct {
		DaysRemaining int    `json:"days_remaining"`
		Status        string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&renewed))
	// Renewed start is backdated by the 20 unused days: 30 - 20 remain
	assert.Equal(t, 10, renewed.DaysRemaining)
	assert.Equal(t, "active", renewed.Status)

	fmt.Println("✓ Renewal Verified")

	// ==========================================
	// STEP 7: Plan deletion blocked while referenced
	// ==========================================
	resp = request("DELETE", "/v1/plans/"+planID, adminToken, nil)
	assert.Equal(t, 409, resp.StatusCode)

	resp = request("DELETE", "/v1/customers/"+customerID+"/subscriptions/"+subID, adminToken, nil)
	require.Equal(t, 204, resp.StatusCode)

	resp = request("DELETE", "/v1/plans/"+planID, adminToken, nil)
	assert.Equal(t, 204, resp.StatusCode)

	fmt.Println("✓ Plan In-Use Guard Verified")

	// ==========================================
	// STEP 8: Admin Users & Settings
	// ==========================================
	resp = request("POST", "/v1/admin/users", adminToken, map[string]interface{}{
		"username": "operator",
		"password": "op-pass-1",
		"is_admin": false,
	})
	require.Equal(t, 201, resp.StatusCode)

	var userData map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&userData)
	operatorID := userData["id"].(string)

	// Non-admin must not reach the admin area
	resp = request("POST", "/v1/auth/login", "", map[string]string{
		"username": "operator",
		"password": "op-pass-1",
	})
	require.Equal(t, 200, resp.StatusCode)
	var opLogin struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&opLogin))

	resp = request("GET", "/v1/admin/users", opLogin.Tokens.AccessToken, nil)
	assert.Equal(t, 403, resp.StatusCode)

	// Ownership partition: operator sees no plans or customers of the admin
	resp = request("GET", "/v1/customers", opLogin.Tokens.AccessToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	var opCustomers []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&opCustomers)
	assert.Empty(t, opCustomers)

	// Settings round trip
	resp = request("PUT", "/v1/admin/settings", adminToken, map[string]interface{}{
		"notification_email":         "ops@subscriply.test",
		"enable_email_notifications": false,
		"subscription_warning_days":  7,
		"company_name":               "Subscriply Test",
		"allow_user_registration":    false,
		"theme":                      "dark",
	})
	require.Equal(t, 200, resp.StatusCode)

	resp = request("GET", "/v1/admin/settings", adminToken, nil)
	require.Equal(t, 200, resp.StatusCode)
	var settings map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&settings)
	assert.Equal(t, "dark", settings["theme"])
	assert.Equal(t, "Subscriply Test", settings["company_name"])

	// Registration is now closed
	resp = request("POST", "/v1/auth/register", "", map[string]string{
		"username": "walkin",
		"password": "walkin-pass",
	})
	assert.Equal(t, 403, resp.StatusCode)

	// Deleting the only admin is refused
	resp = request("DELETE", "/v1/admin/users/"+loginData.User.ID, adminToken, nil)
	assert.Equal(t, 409, resp.StatusCode)

	resp = request("DELETE", "/v1/admin/users/"+operatorID, adminToken, nil)
	assert.Equal(t, 204, resp.StatusCode)

	fmt.Println("✓ Admin Area Verified")

	// ==========================================
	// STEP 9: Token refresh rotation
	// ==========================================
	resp = request("POST", "/v1/auth/refresh", "", map[string]string{
		"refresh_token": loginData.Tokens.RefreshToken,
	})
	require.Equal(t, 200, resp.StatusCode)

	// The rotated-out token is dead
	resp = request("POST", "/v1/auth/refresh", "", map[string]string{
		"refresh_token": loginData.Tokens.RefreshToken,
	})
	assert.Equal(t, 401, resp.StatusCode)

	fmt.Println("✓ Refresh Rotation Verified")
}
