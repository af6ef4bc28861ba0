package entity

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Starter datasets inserted by EnsureSeed the first time an empty
// collection is read. Counts and content mirror the fixture set the admin
// UI was built against: two users, one chat board, five plan products and
// ten licenses spread over them with an index-mod-3 status distribution.

const dayMillis = int64(24 * 60 * 60 * 1000)

func seedUsers() []User {
	return []User{
		{ID: "u1", Name: "Admin User"},
		{ID: "u2", Name: "Support Team"},
	}
}

func seedChats() []Chat {
	now := time.Now().UnixMilli()
	return []Chat{
		{
			ID:    "c1",
			Title: "General",
			Messages: []ChatMessage{
				{ID: "m1", ChatID: "c1", UserID: "u1", Text: "Hello", Ts: now},
			},
		},
	}
}

func seedProducts() []Product {
	now := time.Now().UnixMilli()
	return []Product{
		{ID: "prod_1", Name: "Pro Plan", Description: "Full access to all features for professionals.", Price: 2999, CreatedAt: now - 10*dayMillis},
		{ID: "prod_2", Name: "Enterprise Plan", Description: "Dedicated support and infrastructure for large teams.", Price: 9999, CreatedAt: now - 20*dayMillis},
		{ID: "prod_3", Name: "Basic Plan", Description: "Essential features for getting started.", Price: 999, CreatedAt: now - 5*dayMillis},
		{ID: "prod_4", Name: "Lifetime Deal", Description: "One-time purchase for lifetime access.", Price: 49900, CreatedAt: now - 30*dayMillis},
		{ID: "prod_5", Name: "Team Bundle", Description: "Access for up to 5 users.", Price: 7999, CreatedAt: now - 15*dayMillis},
	}
}

func seedLicenses() []License {
	products := seedProducts()
	now := time.Now().UnixMilli()
	statuses := []LicenseStatus{StatusActive, StatusExpired, StatusBanned}

	licenses := make([]License, 0, 10)
	for i := 0; i < 10; i++ {
		status := statuses[i%3]

		var expiresAt *int64
		switch status {
		case StatusActive:
			ts := now + int64(30*(i+1))*dayMillis
			expiresAt = &ts
		case StatusExpired:
			ts := now - 30*dayMillis
			expiresAt = &ts
		}

		licenses = append(licenses, License{
			ID:        "lic_" + uuid.New().String(),
			ProductID: products[i%len(products)].ID,
			Key:       GenerateKey(),
			Status:    status,
			ExpiresAt: expiresAt,
			Metadata:  map[string]any{"customerId": "cust_" + strconv.Itoa(i+1)},
			CreatedAt: now - int64(i)*dayMillis,
		})
	}
	return licenses
}
